package domain

import "github.com/shopspring/decimal"

// RuleRentToIncome30 identifies the fixed affordability rule.
const RuleRentToIncome30 = "rent_to_income_max_30pct"

// rentToIncomeRatio is the share of monthly income rent may consume.
var rentToIncomeRatio = decimal.RequireFromString("0.3")

// RentToIncomeRatio returns the fixed 30% threshold.
func RentToIncomeRatio() decimal.Decimal {
	return rentToIncomeRatio
}

// MaxAffordableRent is 30% of income, or zero when income is not positive.
func MaxAffordableRent(totalIncome decimal.Decimal) decimal.Decimal {
	if !totalIncome.IsPositive() {
		return decimal.Zero
	}
	return totalIncome.Mul(rentToIncomeRatio)
}

// EvaluateAffordability applies the 30% rule. A missing target rent can
// never be afforded; the comparison is inclusive.
func EvaluateAffordability(totalIncome decimal.Decimal, targetRent decimal.NullDecimal) (decimal.Decimal, bool) {
	maxRent := MaxAffordableRent(totalIncome)
	if !targetRent.Valid {
		return maxRent, false
	}
	return maxRent, targetRent.Decimal.LessThanOrEqual(maxRent)
}
