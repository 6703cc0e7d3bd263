package domain

import "time"

// Assessment is a stored affordability run: the frozen audit record, the
// normalized result and the explanation text that produced it.
type Assessment struct {
	ID               string
	ApplicationRef   string
	InputFingerprint string
	Record           AuditRecord
	Result           NormalizedResult
	RawExplanation   string
	Explainer        string
	CreatedAt        time.Time
}

// AssessmentFilter narrows ListAssessments.
type AssessmentFilter struct {
	ApplicationRef string
	Limit          int
	Offset         int
}

// ExplanationRequest is what the explanation step is allowed to see. Record
// is a copy and is read-only ground truth.
type ExplanationRequest struct {
	Record       AuditRecord
	Transactions []Transaction
	Payslip      *Payslip
	TenantIncome *TenantIncome
	CreditReport *CreditReport
}
