package extract

import (
	"github.com/shopspring/decimal"
)

// ParseAmount parses a currency string such as "R 15,000.00" or "- R 450.00".
// The "R" marker, commas and whitespace are ignored. ok is false when what is
// left is not a number.
func ParseAmount(s string) (amount decimal.Decimal, ok bool) {
	cleaned := amountNoise.ReplaceAllString(s, "")
	if cleaned == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseAmountOrZero is ParseAmount with parse failures mapped to zero.
func ParseAmountOrZero(s string) decimal.Decimal {
	d, _ := ParseAmount(s)
	return d
}
