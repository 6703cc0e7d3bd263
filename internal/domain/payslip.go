package domain

import "github.com/shopspring/decimal"

// Income frequencies reported on a payslip.
const (
	IncomeFrequencyWeekly   = "weekly"
	IncomeFrequencyBiWeekly = "bi-weekly"
	IncomeFrequencyMonthly  = "monthly"
	IncomeFrequencyUnknown  = "unknown"
)

// Payslip is the caller-supplied payslip payload. Only NetIncome and RawText
// feed the affordability engine; the rest is context for the explanation step.
type Payslip struct {
	Employer        string
	EmployeeName    string
	PayPeriod       string
	IncomeFrequency string
	GrossIncome     decimal.Decimal
	NetIncome       decimal.Decimal
	RawText         string
}

// PayslipFact is the extracted net monthly income.
type PayslipFact struct {
	NetIncome decimal.Decimal
	RawText   string
}

// TenantIncome is what the applicant says they earn.
type TenantIncome struct {
	StatedMonthlyIncome decimal.Decimal
	EmploymentStatus    string
	Employer            string
	EmploymentDuration  int
}
