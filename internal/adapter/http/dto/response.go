package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/affordability"
	"github.com/propma/affordability/internal/domain"
)

// AssessmentResponse represents a stored assessment.
type AssessmentResponse struct {
	ID             string                  `json:"id"`
	ApplicationRef string                  `json:"application_ref,omitempty"`
	Explainer      string                  `json:"explainer"`
	AuditRecord    domain.AuditRecord      `json:"audit_record"`
	Result         domain.NormalizedResult `json:"result"`
	CreatedAt      time.Time               `json:"created_at"`
}

// AssessmentFromDomain converts a domain assessment to its response.
func AssessmentFromDomain(a *domain.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID,
		ApplicationRef: a.ApplicationRef,
		Explainer:      a.Explainer,
		AuditRecord:    a.Record,
		Result:         a.Result,
		CreatedAt:      a.CreatedAt,
	}
}

// ListAssessmentsResponse is a page of assessments.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// TransactionResponse is a transaction as the engine saw it.
type TransactionResponse struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// TransactionsFromDomain converts domain transactions.
func TransactionsFromDomain(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		out[i] = TransactionResponse{
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			Type:        string(t.Direction),
		}
	}
	return out
}

// TotalsResponse are the aggregated figures.
type TotalsResponse struct {
	TransactionIncome decimal.Decimal `json:"transaction_income"`
	PayslipIncome     decimal.Decimal `json:"payslip_income"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	TotalDebt         decimal.Decimal `json:"total_debt"`
}

// PreviewResponse is the deterministic half of an assessment.
type PreviewResponse struct {
	AuditRecord  domain.AuditRecord    `json:"audit_record"`
	Totals       TotalsResponse        `json:"totals"`
	Transactions []TransactionResponse `json:"transactions"`
}

// PreviewFromAnalysis converts an engine analysis.
func PreviewFromAnalysis(a affordability.Analysis) PreviewResponse {
	return PreviewResponse{
		AuditRecord: a.Record,
		Totals: TotalsResponse{
			TransactionIncome: a.Totals.TransactionIncome,
			PayslipIncome:     a.Payslip.NetIncome,
			TotalIncome:       a.Record.TotalIncome(),
			TotalExpenses:     a.Record.TotalExpenses(),
			TotalDebt:         a.Record.TotalDebt(),
		},
		Transactions: TransactionsFromDomain(a.Transactions),
	}
}

// ExtractPayslipResponse is the resolved net income.
type ExtractPayslipResponse struct {
	NetIncome decimal.Decimal `json:"net_income"`
}

// ExtractStatementResponse lists transactions scanned from text.
type ExtractStatementResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
