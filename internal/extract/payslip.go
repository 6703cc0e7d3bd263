package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
)

// PayslipNetIncome returns the best estimate of net monthly income. A
// positive structured figure wins outright; otherwise rawText is scanned.
// Failure to find anything yields zero, never an error.
func PayslipNetIncome(structured decimal.Decimal, rawText string) decimal.Decimal {
	if structured.IsPositive() {
		return structured
	}

	if strings.TrimSpace(rawText) == "" {
		return decimal.Zero
	}

	if v, ok := scanNetPayLines(rawText); ok {
		return v
	}

	if v, ok := searchNetPayDocument(rawText); ok {
		return v
	}

	return decimal.Zero
}

// ExtractPayslip reduces a payslip payload to the fact the engine consumes.
func ExtractPayslip(p *domain.Payslip) domain.PayslipFact {
	if p == nil {
		return domain.PayslipFact{NetIncome: decimal.Zero}
	}

	return domain.PayslipFact{
		NetIncome: PayslipNetIncome(p.NetIncome, p.RawText),
		RawText:   p.RawText,
	}
}

// scanNetPayLines looks for "net pay" and takes the last amount on that line
// or one of the next payslipLookahead lines. First occurrence wins.
func scanNetPayLines(text string) (decimal.Decimal, bool) {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "net pay") {
			continue
		}

		for j := i; j <= i+payslipLookahead && j < len(lines); j++ {
			matches := payslipAmount.FindAllString(lines[j], -1)
			if len(matches) == 0 {
				continue
			}

			if v, ok := ParseAmount(matches[len(matches)-1]); ok {
				return v, true
			}
		}
	}

	return decimal.Zero, false
}

func searchNetPayDocument(text string) (decimal.Decimal, bool) {
	for _, m := range payslipFallback.FindAllStringSubmatch(text, -1) {
		if v, ok := ParseAmount(m[1]); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}
