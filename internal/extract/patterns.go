// Package extract turns OCR text dumps of payslips and bank statements into
// structured figures. Every function is a pure function of its input.
package extract

import "regexp"

// Search windows. These are part of the extraction contract.
const (
	// payslipLookahead is how many lines after a "net pay" line may hold the figure.
	payslipLookahead = 2
	// statementLookahead is how many lines after a date may hold the amount.
	statementLookahead = 5
)

var (
	// payslipAmount matches 18,500.00 / 18 500.00 / 18500.00.
	payslipAmount = regexp.MustCompile(`\d+(?:[, ]\d{3})*\.\d{2}`)

	// payslipFallback searches the whole document when the line scan fails.
	payslipFallback = regexp.MustCompile(`(?i)net\s+(?:pay|income)\s*[:\-]?\s*\n?\s*(?:R|\$|£|€)?\s*(\d+(?:[, ]\d{3})*(?:\.\d{2})?)`)

	// statementDate matches "5 Jan 2025" and "05 January 2025".
	statementDate = regexp.MustCompile(`\b(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})\b`)

	// statementAmount matches "- R 450.00", "R1,200.00" and "-8000.00".
	statementAmount = regexp.MustCompile(`-?\s*R?\s*\d+(?:,\d{3})*\.\d{2}`)

	// amountNoise is stripped before a currency string is parsed.
	amountNoise = regexp.MustCompile(`[R,\s]`)
)
