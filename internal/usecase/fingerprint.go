package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

type fingerprintTx struct {
	Date        string `json:"d"`
	Description string `json:"s"`
	Amount      string `json:"a"`
	Direction   string `json:"t"`
}

type fingerprintDoc struct {
	Transactions   []fingerprintTx `json:"tx"`
	StatementText  string          `json:"st"`
	PayslipNet     string          `json:"pn"`
	PayslipText    string          `json:"pt"`
	NegativeAccts  int             `json:"na"`
	TargetRent     string          `json:"tr"`
	SkipExplainer  bool            `json:"se"`
	HasCredit      bool            `json:"hc"`
	StatedIncome   string          `json:"si"`
	ApplicationRef string          `json:"ref"`
}

// Fingerprint hashes the parts of input that influence the result.
func Fingerprint(input AssessInput) string {
	doc := fingerprintDoc{
		Transactions:   make([]fingerprintTx, 0, len(input.Transactions)),
		StatementText:  input.StatementText,
		SkipExplainer:  input.SkipExplanation,
		ApplicationRef: input.ApplicationRef,
	}

	for _, tx := range input.Transactions {
		doc.Transactions = append(doc.Transactions, fingerprintTx{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount.String(),
			Direction:   string(tx.Direction),
		})
	}

	if input.Payslip != nil {
		doc.PayslipNet = input.Payslip.NetIncome.String()
		doc.PayslipText = input.Payslip.RawText
	}

	if input.CreditReport != nil {
		doc.HasCredit = true
		if s := input.CreditReport.AccountsSummary; s != nil {
			doc.NegativeAccts = s.NegativeAccounts
		}
	}

	if input.TenantIncome != nil {
		doc.StatedIncome = input.TenantIncome.StatedMonthlyIncome.String()
	}

	if input.TargetRent.Valid {
		doc.TargetRent = input.TargetRent.Decimal.String()
	}

	data, _ := json.Marshal(doc)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
