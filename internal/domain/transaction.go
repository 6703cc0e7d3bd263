package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction tells whether money moved into (credit) or out of (debit) the account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// ParseDirection maps a free-text transaction type onto a Direction.
// Only "debit" (any case) is a debit; everything else counts as a credit.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(DirectionDebit)) {
		return DirectionDebit
	}
	return DirectionCredit
}

// IsDebit reports whether d is a debit.
func (d Direction) IsDebit() bool {
	return d == DirectionDebit
}

// Transaction is a single bank movement, either supplied by the caller or
// scanned out of statement text. Values are never mutated after creation.
type Transaction struct {
	// Date is DD/MM/YYYY when it could be normalized, otherwise the raw token.
	Date        string
	Description string
	Amount      decimal.Decimal
	Direction   Direction
}

// NewTransaction builds a Transaction. Debits are stored as a positive
// magnitude; credits keep the sign they were supplied with.
func NewTransaction(date, description string, amount decimal.Decimal, direction Direction) Transaction {
	if direction.IsDebit() {
		amount = amount.Abs()
	}

	return Transaction{
		Date:        strings.TrimSpace(date),
		Description: description,
		Amount:      amount,
		Direction:   direction,
	}
}
