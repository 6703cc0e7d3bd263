package handler

import (
	"net/http"

	"github.com/propma/affordability/internal/adapter/http/dto"
	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/extract"
)

// ExtractHandler exposes the text extractors on their own.
type ExtractHandler struct{}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler() *ExtractHandler {
	return &ExtractHandler{}
}

// Payslip resolves net monthly income from a payslip.
func (h *ExtractHandler) Payslip(w http.ResponseWriter, r *http.Request) {
	var req dto.ExtractPayslipRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := domain.ValidateDocuments(0, req.RawText); err != nil {
		writeDomainError(w, r, "invalid payslip", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExtractPayslipResponse{
		NetIncome: extract.PayslipNetIncome(req.NetIncome.OrZero(), req.RawText),
	})
}

// Statement scans transactions out of bank statement text.
func (h *ExtractHandler) Statement(w http.ResponseWriter, r *http.Request) {
	var req dto.ExtractStatementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := domain.ValidateDocuments(0, req.RawText); err != nil {
		writeDomainError(w, r, "invalid statement", err)
		return
	}

	txs := extract.StatementTransactions(req.RawText)
	writeJSON(w, http.StatusOK, dto.ExtractStatementResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Count:        len(txs),
	})
}
