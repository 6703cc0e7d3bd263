package domain

import "errors"

var (
	// Audit record contract errors
	ErrMissingTotalIncome  = errors.New("audit record requires total income")
	ErrNegativeAggregate   = errors.New("aggregate totals must not be negative")
	ErrTamperedAuditRecord = errors.New("audit record conclusions do not match its figures")

	// Input errors
	ErrInvalidTargetRent = errors.New("invalid target rent")
	ErrMissingInput      = errors.New("missing required input field")

	// Result errors
	ErrResultSchemaViolation = errors.New("normalized result violates response schema")

	// Assessment errors
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrExplainerUnavailable = errors.New("explanation step unavailable")
)
