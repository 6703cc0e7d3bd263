package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/usecase"
)

// TransactionRequest is one structured bank transaction.
type TransactionRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
	Type        string `json:"type"`
}

// PayslipRequest carries payslip fields; only netIncome and raw_text feed
// the audit record.
type PayslipRequest struct {
	Employer        string `json:"employer,omitempty"`
	EmployeeName    string `json:"employeeName,omitempty"`
	PayPeriod       string `json:"payPeriod,omitempty"`
	IncomeFrequency string `json:"incomeFrequency,omitempty"`
	GrossIncome     Amount `json:"grossIncome"`
	NetIncome       Amount `json:"netIncome"`
	RawText         string `json:"raw_text,omitempty"`
}

// BankStatementRequest carries raw statement OCR text.
type BankStatementRequest struct {
	RawText string `json:"raw_text"`
}

// TenantIncomeRequest is the applicant's own income declaration.
type TenantIncomeRequest struct {
	StatedMonthlyIncome Amount `json:"statedMonthlyIncome"`
	EmploymentStatus    string `json:"employmentStatus,omitempty"`
	Employer            string `json:"employer,omitempty"`
	EmploymentDuration  int    `json:"employmentDuration,omitempty"`
}

// CreditReportRequest is the bureau summary.
type CreditReportRequest struct {
	CreditScore     int                     `json:"creditScore"`
	ReportDate      string                  `json:"reportDate,omitempty"`
	AccountsSummary *AccountsSummaryRequest `json:"accountsSummary,omitempty"`
}

// AccountsSummaryRequest counts bureau accounts by standing.
type AccountsSummaryRequest struct {
	TotalAccounts          int `json:"totalAccounts"`
	AccountsInGoodStanding int `json:"accountsInGoodStanding"`
	NegativeAccounts       int `json:"negativeAccounts"`
}

// AssessmentRequest represents a request to assess affordability.
type AssessmentRequest struct {
	ApplicationRef    string                `json:"application_ref,omitempty"`
	Transactions      []TransactionRequest  `json:"transactions"`
	TargetRent        Amount                `json:"target_rent"`
	PayslipData       *PayslipRequest       `json:"payslip_data,omitempty"`
	BankStatementData *BankStatementRequest `json:"bank_statement_data,omitempty"`
	TenantIncome      *TenantIncomeRequest  `json:"tenant_income,omitempty"`
	CreditReport      *CreditReportRequest  `json:"credit_report,omitempty"`
	SkipExplanation   bool                  `json:"skip_explanation,omitempty"`

	targetRentPresent bool
}

// ToUseCaseInput converts to use case input.
func (r *AssessmentRequest) ToUseCaseInput() (usecase.AssessInput, error) {
	in := usecase.AssessInput{
		ApplicationRef:  r.ApplicationRef,
		Transactions:    Transactions(r.Transactions),
		SkipExplanation: r.SkipExplanation,
	}

	if r.TargetRent.Valid {
		in.TargetRent = decimal.NewNullDecimal(r.TargetRent.Decimal)
	} else if r.targetRentPresent {
		return usecase.AssessInput{}, fmt.Errorf("%w: not a number", domain.ErrInvalidTargetRent)
	}

	if r.BankStatementData != nil {
		in.StatementText = r.BankStatementData.RawText
	}

	if p := r.PayslipData; p != nil {
		in.Payslip = &domain.Payslip{
			Employer:        p.Employer,
			EmployeeName:    p.EmployeeName,
			PayPeriod:       p.PayPeriod,
			IncomeFrequency: p.IncomeFrequency,
			GrossIncome:     p.GrossIncome.OrZero(),
			NetIncome:       p.NetIncome.OrZero(),
			RawText:         p.RawText,
		}
	}

	if ti := r.TenantIncome; ti != nil {
		in.TenantIncome = &domain.TenantIncome{
			StatedMonthlyIncome: ti.StatedMonthlyIncome.OrZero(),
			EmploymentStatus:    ti.EmploymentStatus,
			Employer:            ti.Employer,
			EmploymentDuration:  ti.EmploymentDuration,
		}
	}

	if cr := r.CreditReport; cr != nil {
		in.CreditReport = &domain.CreditReport{
			CreditScore: cr.CreditScore,
			ReportDate:  cr.ReportDate,
		}
		if s := cr.AccountsSummary; s != nil {
			in.CreditReport.AccountsSummary = &domain.AccountsSummary{
				TotalAccounts:          s.TotalAccounts,
				AccountsInGoodStanding: s.AccountsInGoodStanding,
				NegativeAccounts:       s.NegativeAccounts,
			}
		}
	}

	return in, nil
}

// Transactions converts request transactions to domain values. Amounts that
// do not parse become zero.
func Transactions(items []TransactionRequest) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(items))
	for _, t := range items {
		txs = append(txs, domain.NewTransaction(t.Date, t.Description, t.Amount.OrZero(), domain.ParseDirection(t.Type)))
	}
	return txs
}

// ExtractPayslipRequest asks for net income from a payslip.
type ExtractPayslipRequest struct {
	NetIncome Amount `json:"netIncome"`
	RawText   string `json:"raw_text"`
}

// ExtractStatementRequest asks for transactions from statement text.
type ExtractStatementRequest struct {
	RawText string `json:"raw_text"`
}
