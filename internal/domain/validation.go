package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidApplicationRef = errors.New("invalid application reference")
	ErrTooManyTransactions   = errors.New("too many transactions")
	ErrDocumentTooLarge      = errors.New("document text exceeds limit")
	ErrInvalidIDFormat       = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxApplicationRefLength = 128
	MaxTransactions         = 10000
	MaxDocumentTextSize     = 1 << 20 // 1MB
	MaxTargetRent           = "100000000"
)

var (
	applicationRefRegex = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)
	ulidRegex           = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
)

// ValidateTargetRent rejects absurd rents. A missing rent is allowed; it
// simply cannot be afforded. Zero and negative rents pass through and the
// 30% rule treats them as always affordable.
func ValidateTargetRent(rent decimal.NullDecimal) error {
	if !rent.Valid {
		return nil
	}

	if rent.Decimal.GreaterThan(decimal.RequireFromString(MaxTargetRent)) {
		return fmt.Errorf("%w: exceeds %s", ErrInvalidTargetRent, MaxTargetRent)
	}

	return nil
}

// ValidateApplicationRef validates the caller's optional application id.
func ValidateApplicationRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	if len(ref) > MaxApplicationRefLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidApplicationRef, MaxApplicationRefLength)
	}

	if !applicationRefRegex.MatchString(ref) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidApplicationRef)
	}

	return nil
}

// ValidateDocuments bounds the size of the raw inputs.
func ValidateDocuments(transactions int, texts ...string) error {
	if transactions > MaxTransactions {
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyTransactions, transactions, MaxTransactions)
	}

	for _, text := range texts {
		if len(text) > MaxDocumentTextSize {
			return fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(text))
		}
	}

	return nil
}

// ValidateAssessmentID checks that id looks like a ULID.
func ValidateAssessmentID(id string) error {
	if !ulidRegex.MatchString(strings.ToUpper(id)) {
		return ErrInvalidIDFormat
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
