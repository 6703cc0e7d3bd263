package affordability

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/propma/affordability/internal/domain"
)

func TestIsExpense(t *testing.T) {
	tests := []struct {
		name string
		tx   domain.Transaction
		want bool
	}{
		{"debit direction", domain.NewTransaction("", "RENT", dec("7000"), domain.DirectionDebit), true},
		{"description starts with dash", domain.NewTransaction("", "  - card purchase", dec("50"), domain.DirectionCredit), true},
		{"negative amount with R marker", domain.NewTransaction("", "R 120 airtime", dec("-120"), domain.DirectionCredit), true},
		{"negative amount without R", domain.NewTransaction("", "refund", dec("-20"), domain.DirectionCredit), false},
		{"plain credit", domain.NewTransaction("", "SALARY", dec("25000"), domain.DirectionCredit), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpense(tt.tx))
		})
	}
}

func TestAggregate_PayslipDominance(t *testing.T) {
	txs := []domain.Transaction{tx("25000", "credit"), tx("-1000", "debit")}

	totals := Aggregate(txs, dec("30000"))
	assert.True(t, totals.Income.Equal(dec("30000")), "payslip should replace lower transaction income")
	assert.True(t, totals.TransactionIncome.Equal(dec("25000")))
	assert.True(t, totals.PayslipUsed)

	totals = Aggregate(txs, dec("20000"))
	assert.True(t, totals.Income.Equal(dec("25000")), "higher transaction income should stand")
	assert.False(t, totals.PayslipUsed)

	totals = Aggregate(nil, dec("18500"))
	assert.True(t, totals.Income.Equal(dec("18500")))
	assert.True(t, totals.Expenses.IsZero())
}

func TestAggregate_NegativeCreditReducesIncome(t *testing.T) {
	txs := []domain.Transaction{tx("1000", "credit"), tx("-200", "credit")}

	totals := Aggregate(txs, decimal.Zero)
	assert.True(t, totals.Income.Equal(dec("800")), "income adds the signed amount, got %s", totals.Income)
	assert.True(t, totals.Expenses.IsZero())
}

func TestAggregate_IncomeNeverBelowPayslipFloor(t *testing.T) {
	totals := Aggregate([]domain.Transaction{tx("-500", "credit")}, decimal.Zero)
	assert.True(t, totals.Income.IsZero(), "got %s", totals.Income)
}
