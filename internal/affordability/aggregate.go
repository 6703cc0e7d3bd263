// Package affordability computes the deterministic audit record: it merges
// extracted figures, aggregates transactions and applies the 30% rule.
package affordability

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
)

// Totals are the aggregates derived from a transaction list.
type Totals struct {
	// TransactionIncome is the signed sum of income transactions.
	TransactionIncome decimal.Decimal
	// Income is max(TransactionIncome, payslip income).
	Income   decimal.Decimal
	Expenses decimal.Decimal
	// PayslipUsed is set when the payslip figure replaced transaction income.
	PayslipUsed bool
}

// IsExpense classifies a transaction as money out. A debit, a description
// starting with "-", or a negative amount whose description contains "R"
// all count.
func IsExpense(tx domain.Transaction) bool {
	if tx.Direction.IsDebit() {
		return true
	}

	desc := strings.TrimSpace(tx.Description)
	if strings.HasPrefix(desc, "-") {
		return true
	}

	return strings.Contains(desc, "R") && tx.Amount.IsNegative()
}

// Aggregate sums income and expenses. When the payslip figure is higher
// than transaction income it replaces it; the two are never blended.
func Aggregate(txs []domain.Transaction, payslipIncome decimal.Decimal) Totals {
	income := decimal.Zero
	expenses := decimal.Zero

	for _, tx := range txs {
		if IsExpense(tx) {
			expenses = expenses.Add(tx.Amount.Abs())
			continue
		}
		income = income.Add(tx.Amount)
	}

	totals := Totals{
		TransactionIncome: income,
		Income:            income,
		Expenses:          expenses,
	}

	if payslipIncome.GreaterThan(income) {
		totals.Income = payslipIncome
		totals.PayslipUsed = true
	}

	return totals
}
