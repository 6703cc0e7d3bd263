package explainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AzureConfig configures the Azure OpenAI chat completions client.
type AzureConfig struct {
	APIKey         string
	Endpoint       string
	APIVersion     string
	DeploymentName string
	Temperature    float64
	HTTPClient     *http.Client
}

// AzureOpenAIExplainer calls an Azure OpenAI deployment.
type AzureOpenAIExplainer struct {
	cfg        AzureConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewAzureOpenAIExplainer creates an Azure OpenAI explainer.
func NewAzureOpenAIExplainer(cfg AzureConfig, log zerolog.Logger) *AzureOpenAIExplainer {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-06-01"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	return &AzureOpenAIExplainer{cfg: cfg, httpClient: client, log: log}
}

// Name returns the provider name.
func (a *AzureOpenAIExplainer) Name() string {
	return ProviderAzure
}

// Explain asks the deployment to narrate the audit record.
func (a *AzureOpenAIExplainer) Explain(ctx context.Context, req Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	system, user, err := BuildPrompt(req)
	if err != nil {
		return "", err
	}

	a.log.Info().
		Str("req_id", rid).
		Str("deployment", a.cfg.DeploymentName).
		Int("prompt_len", len(user)).
		Msg("explainer.azure.start")

	body := map[string]any{
		"temperature":     a.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	raw, err := a.post(ctx, a.completionsURL(), body)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("req_id", rid).
			Dur("elapsed", time.Since(start)).
			Msg("explainer.azure.http_error")
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode azure openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in azure openai response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyResponse
	}

	a.log.Info().
		Str("req_id", rid).
		Int("response_len", len(content)).
		Dur("elapsed", time.Since(start)).
		Msg("explainer.azure.ok")

	return content, nil
}

func (a *AzureOpenAIExplainer) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(a.cfg.Endpoint, "/"),
		url.PathEscape(a.cfg.DeploymentName),
		url.QueryEscape(a.cfg.APIVersion),
	)
}

func (a *AzureOpenAIExplainer) post(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			a.log.Warn().Err(err).Msg("azure openai response body close error")
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: buf.String()}
	}

	return buf.Bytes(), nil
}

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("azure openai status %d: %s", e.Code, e.Body)
}
