package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/propma/affordability/internal/adapter/explainer"
	"github.com/propma/affordability/internal/adapter/http/dto"
	"github.com/propma/affordability/internal/affordability"
	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/extract"
	"github.com/propma/affordability/internal/infrastructure/auth"
	"github.com/propma/affordability/internal/infrastructure/config"
	"github.com/propma/affordability/internal/infrastructure/logger"
	"github.com/propma/affordability/internal/infrastructure/postgres"
	"github.com/propma/affordability/internal/usecase"
)

const defaultOutputPath = "affordability_analysis_result.json"

// requiredInputKeys must be present in an assess input file.
var requiredInputKeys = []string{"transactions", "target_rent"}

var logLevel string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "affordability-cli",
		Short:         "Rental affordability CLI tool",
		Long:          `Run affordability assessments and extractions locally, issue API tokens and manage the database schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(assessCmd(), extractCmd(), tokenCmd(), migrateCmd())
	return rootCmd
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	return logger.New(logger.Config{Level: logLevel, Format: "console", Output: cmd.ErrOrStderr()})
}

func assessCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess affordability for an application file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cliLogger(cmd)

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			input, err := parseAssessInput(data)
			if err != nil {
				return err
			}

			var narrator usecase.Explainer = explainer.StaticExplainer{}
			if explain {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load configuration: %w", err)
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				narrator, err = explainer.FromConfig(cmd.Context(), cfg, nil, log)
				if err != nil {
					return err
				}
			}

			uc := usecase.NewAssessmentUseCase(usecase.AssessmentDeps{
				Engine:    affordability.NewEngine(affordability.LogObserver{Log: log}),
				Explainer: narrator,
			})

			assessment, err := uc.Assess(cmd.Context(), input)
			if err != nil {
				return err
			}

			if err := writeResult(outputPath, assessment.Result); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "can_afford: %t\nresult written to %s\n", assessment.Result.CanAfford, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the application JSON file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", defaultOutputPath, "Where to write the normalized result")
	cmd.Flags().BoolVar(&explain, "explain", false, "Use the configured EXPLAINER instead of the offline narrative")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// parseAssessInput checks required keys and converts the file to use case input.
func parseAssessInput(data []byte) (usecase.AssessInput, error) {
	missing, err := dto.HasKeys(data, requiredInputKeys...)
	if err != nil {
		return usecase.AssessInput{}, fmt.Errorf("parse input: %w", err)
	}
	if len(missing) > 0 {
		return usecase.AssessInput{}, fmt.Errorf("%w: %s", domain.ErrMissingInput, strings.Join(missing, ", "))
	}

	var req dto.AssessmentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return usecase.AssessInput{}, fmt.Errorf("parse input: %w", err)
	}
	return req.ToUseCaseInput()
}

// writeResult writes v as indented JSON, creating parent directories.
func writeResult(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run a text extractor on a document",
	}

	var netIncome string
	payslip := &cobra.Command{
		Use:   "payslip <file|->",
		Short: "Resolve net monthly income from payslip text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			structured := decimal.Zero
			if netIncome != "" {
				if d, ok := extract.ParseAmount(netIncome); ok {
					structured = d
				}
			}

			printJSON(cmd.OutOrStdout(), dto.ExtractPayslipResponse{
				NetIncome: extract.PayslipNetIncome(structured, text),
			})
			return nil
		},
	}
	payslip.Flags().StringVar(&netIncome, "net", "", "Structured net income, used when positive")

	statement := &cobra.Command{
		Use:   "statement <file|->",
		Short: "Scan transactions out of bank statement text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}

			txs := extract.StatementTransactions(text)
			printJSON(cmd.OutOrStdout(), dto.ExtractStatementResponse{
				Transactions: dto.TransactionsFromDomain(txs),
				Count:        len(txs),
			})
			return nil
		},
	}

	cmd.AddCommand(payslip, statement)
	return cmd
}

// readDocument reads a file, or stdin for "-", within the document size limit.
func readDocument(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, domain.MaxDocumentTextSize+1))
	if err != nil {
		return "", err
	}
	if err := domain.ValidateDocuments(0, string(data)); err != nil {
		return "", err
	}
	return string(data), nil
}

func tokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if secret == "" {
				secret = cfg.JWTSecret
			}
			if secret == "" {
				return errors.New("JWT_SECRET is not set and --secret was not given")
			}

			token, err := auth.NewJWTManager(secret, cfg.JWTExpiration).Generate(subject, domain.Role(role))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Agent or integration the token is issued to")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAgent), "Role: admin, agent or viewer")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	run := func(apply func(url, path string, log zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return apply(cfg.DatabaseURL, cfg.MigrationsPath, cliLogger(cmd))
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: run(postgres.RunMigrationsDown)},
	)
	return cmd
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

