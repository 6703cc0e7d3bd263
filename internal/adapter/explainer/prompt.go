package explainer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/propma/affordability/internal/domain"
)

const systemPrompt = `You are a senior financial analyst for a residential letting agency.
You explain rental affordability decisions that have already been made.
The AUDIT RECORD below was computed deterministically and is read-only ground truth:
never change can_afford, max_affordable_rent, total_income or target_rent, and never
contradict them. Describe and justify the record using the supporting documents.
Return ONLY raw JSON (no markdown, no code fences) with exactly these keys:
can_afford (boolean), confidence (number 0-1), risk_factors (array of strings),
recommendations (array of strings, each 10-250 characters), metrics (object with
monthly_income, total_monthly_expenses, monthly_debt_payments, current_rent_payment,
disposable_income, rent_to_income_ratio, debt_to_income_ratio, savings_rate,
target_rent, total_debt), income_verification (object with payslip_net_income,
verified_average_deposit, is_verified, confidence, match_type,
stated_vs_documented_ratio, notes), transaction_analysis (object with incoming
{salary_wages, other_income} and outgoing {essential_expenses,
non_essential_expenses, debt_payments, savings_investments, current_rent}, each an
array) and missing_fields_notes (object mapping field path to explanation).`

// maxPromptTransactions bounds how many transactions are quoted verbatim.
const maxPromptTransactions = 200

type promptTransaction struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

type promptPayslip struct {
	Employer        string `json:"employer,omitempty"`
	EmployeeName    string `json:"employee_name,omitempty"`
	PayPeriod       string `json:"pay_period,omitempty"`
	IncomeFrequency string `json:"income_frequency,omitempty"`
	GrossIncome     string `json:"gross_income,omitempty"`
	NetIncome       string `json:"net_income,omitempty"`
}

// BuildPrompt renders the system and user prompts for req.
func BuildPrompt(req Request) (system, user string, err error) {
	record, err := json.MarshalIndent(req.Record, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal audit record: %w", err)
	}

	var b strings.Builder
	b.WriteString("AUDIT RECORD (read-only):\n")
	b.Write(record)
	b.WriteString("\n\n")

	writeSection(&b, "TRANSACTIONS", promptTransactions(req.Transactions))

	if req.Payslip != nil {
		writeSection(&b, "PAYSLIP", promptPayslip{
			Employer:        req.Payslip.Employer,
			EmployeeName:    req.Payslip.EmployeeName,
			PayPeriod:       req.Payslip.PayPeriod,
			IncomeFrequency: req.Payslip.IncomeFrequency,
			GrossIncome:     nonZero(req.Payslip.GrossIncome.String()),
			NetIncome:       nonZero(req.Payslip.NetIncome.String()),
		})
	}

	if req.TenantIncome != nil {
		writeSection(&b, "STATED INCOME", map[string]any{
			"stated_monthly_income": req.TenantIncome.StatedMonthlyIncome.String(),
			"employment_status":     req.TenantIncome.EmploymentStatus,
			"employer":              req.TenantIncome.Employer,
			"employment_duration":   req.TenantIncome.EmploymentDuration,
		})
	}

	if req.CreditReport != nil {
		report := map[string]any{
			"credit_score": req.CreditReport.CreditScore,
			"report_date":  req.CreditReport.ReportDate,
		}
		if s := req.CreditReport.AccountsSummary; s != nil {
			report["accounts_summary"] = map[string]int{
				"total_accounts":            s.TotalAccounts,
				"accounts_in_good_standing": s.AccountsInGoodStanding,
				"negative_accounts":         s.NegativeAccounts,
			}
		}
		writeSection(&b, "CREDIT REPORT", report)
	}

	fmt.Fprintf(&b, "Explain why can_afford is %t. Use the audit record's figures for metrics.", req.Record.CanAfford())

	return systemPrompt, b.String(), nil
}

func promptTransactions(txs []domain.Transaction) []promptTransaction {
	if len(txs) > maxPromptTransactions {
		txs = txs[:maxPromptTransactions]
	}

	out := make([]promptTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, promptTransaction{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Type:        string(tx.Direction),
		})
	}
	return out
}

func writeSection(b *strings.Builder, title string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	b.WriteString(title)
	b.WriteString(":\n")
	b.Write(data)
	b.WriteString("\n\n")
}

func nonZero(s string) string {
	if s == "0" {
		return ""
	}
	return s
}
