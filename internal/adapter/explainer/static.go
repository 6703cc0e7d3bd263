package explainer

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
)

// StaticExplainer produces a narrative-free answer straight from the audit
// record. It is used when no model provider is configured.
type StaticExplainer struct{}

// Name returns the provider name.
func (StaticExplainer) Name() string {
	return ProviderStatic
}

// Explain renders the record's figures as result JSON.
func (StaticExplainer) Explain(_ context.Context, req Request) (string, error) {
	rec := req.Record
	income := rec.TotalIncome()

	metrics := map[string]any{
		"monthly_income":         income.InexactFloat64(),
		"total_monthly_expenses": rec.TotalExpenses().InexactFloat64(),
		"total_debt":             rec.TotalDebt().InexactFloat64(),
		"disposable_income":      income.Sub(rec.TotalExpenses()).InexactFloat64(),
	}

	if rent := rec.TargetRent(); rent.Valid && income.IsPositive() {
		metrics["rent_to_income_ratio"] = rent.Decimal.Div(income).Round(4).InexactFloat64()
	}
	if income.IsPositive() {
		metrics["debt_to_income_ratio"] = rec.TotalDebt().Div(income).Round(4).InexactFloat64()
	}

	risks := []string{}
	if !income.IsPositive() {
		risks = append(risks, "No verifiable income was found in the supplied documents")
	}
	if !rec.TargetRent().Valid {
		risks = append(risks, "No target rent was supplied")
	}
	if rec.TotalExpenses().GreaterThan(income) {
		risks = append(risks, "Monthly expenses exceed monthly income")
	}

	ratio := decimal.Zero
	if rent := rec.TargetRent(); rent.Valid && income.IsPositive() {
		ratio = rent.Decimal.Div(income)
	}

	out := map[string]any{
		"can_afford":      rec.CanAfford(),
		"confidence":      staticConfidence(income, ratio),
		"risk_factors":    risks,
		"recommendations": []string{},
		"metrics":         metrics,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// staticConfidence is high for clear-cut ratios and low near the threshold.
func staticConfidence(income, ratio decimal.Decimal) float64 {
	if !income.IsPositive() {
		return 0
	}
	distance := ratio.Sub(domain.RentToIncomeRatio()).Abs()
	switch {
	case distance.GreaterThan(decimal.RequireFromString("0.1")):
		return 0.9
	case distance.GreaterThan(decimal.RequireFromString("0.03")):
		return 0.75
	default:
		return 0.6
	}
}
