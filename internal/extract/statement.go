package extract

import (
	"strings"
	"time"

	"github.com/propma/affordability/internal/domain"
)

var statementDateLayouts = []string{"2 Jan 2006", "2 January 2006"}

// StatementTransactions scans bank statement text for date/amount pairs.
// An empty slice is returned when nothing is found.
func StatementTransactions(rawText string) []domain.Transaction {
	if strings.TrimSpace(rawText) == "" {
		return []domain.Transaction{}
	}

	lines := strings.Split(rawText, "\n")
	txs := make([]domain.Transaction, 0)

	i := 0
	for i < len(lines) {
		dateToken := statementDate.FindString(lines[i])
		if dateToken == "" {
			i++
			continue
		}

		amountLine, amountToken := findAmount(lines, i)
		if amountLine < 0 {
			i++
			continue
		}

		description := joinDescription(lines[i+1 : amountLine])
		amount := ParseAmountOrZero(amountToken)

		direction := domain.DirectionCredit
		if amount.IsNegative() {
			direction = domain.DirectionDebit
		}

		txs = append(txs, domain.NewTransaction(normalizeStatementDate(dateToken), description, amount, direction))
		i = amountLine + 1
	}

	return txs
}

// findAmount returns the index and token of the first amount within
// statementLookahead lines after from, or -1.
func findAmount(lines []string, from int) (int, string) {
	for j := from + 1; j <= from+statementLookahead && j < len(lines); j++ {
		if token := statementAmount.FindString(lines[j]); token != "" {
			return j, token
		}
	}
	return -1, ""
}

func joinDescription(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

// normalizeStatementDate renders the token as DD/MM/YYYY. Unparseable tokens
// are returned unchanged.
func normalizeStatementDate(token string) string {
	token = strings.Join(strings.Fields(token), " ")
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return token
}
