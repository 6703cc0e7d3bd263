package domain

import "github.com/shopspring/decimal"

// CreditReport is the externally supplied credit bureau summary.
type CreditReport struct {
	CreditScore     int
	ReportDate      string
	AccountsSummary *AccountsSummary
}

// AccountsSummary counts bureau accounts by standing.
type AccountsSummary struct {
	TotalAccounts          int
	AccountsInGoodStanding int
	NegativeAccounts       int
}

// CreditFact is the debt figure carried into the audit record.
type CreditFact struct {
	TotalDebt decimal.Decimal
}

// TotalDebtFromNegativeAccounts derives total debt from the bureau's
// negative account count. The count is not a currency balance: this is a
// stand-in kept for compatibility until a real balance field is available.
// Replace this function, not its callers, when that happens.
func TotalDebtFromNegativeAccounts(report *CreditReport) CreditFact {
	if report == nil || report.AccountsSummary == nil {
		return CreditFact{TotalDebt: decimal.Zero}
	}

	n := report.AccountsSummary.NegativeAccounts
	if n < 0 {
		n = 0
	}

	return CreditFact{TotalDebt: decimal.NewFromInt(int64(n))}
}
