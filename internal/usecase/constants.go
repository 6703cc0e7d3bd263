package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultCacheTTL is how long a computed assessment is reused for identical input
	DefaultCacheTTL = 15 * time.Minute

	// assessmentCachePrefix namespaces cache keys by input fingerprint
	assessmentCachePrefix = "assessment:fp:"

	// noteExplanationUnavailable is recorded when the explanation step failed
	noteExplanationUnavailable = "Explanation step unavailable. Result reflects the audit record only."

	// FieldExplanation is the note key for a failed explanation step
	FieldExplanation = "explanation"
)
