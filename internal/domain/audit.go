package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AuditRecord is the deterministic affordability decision and the figures
// behind it. Fields are unexported so that nothing downstream of
// NewAuditRecord can change a conclusion; the record is passed by value.
type AuditRecord struct {
	totalIncome       decimal.Decimal
	totalExpenses     decimal.Decimal
	totalDebt         decimal.Decimal
	maxAffordableRent decimal.Decimal
	targetRent        decimal.NullDecimal
	canAfford         bool
	rule              string
}

// AuditParams are the inputs to NewAuditRecord. TotalIncome is a pointer so
// that a forgotten value is distinguishable from a genuine zero.
type AuditParams struct {
	TotalIncome   *decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalDebt     decimal.Decimal
	TargetRent    decimal.NullDecimal
}

// NewAuditRecord applies the 30% rule and freezes the result.
func NewAuditRecord(p AuditParams) (AuditRecord, error) {
	if p.TotalIncome == nil {
		return AuditRecord{}, ErrMissingTotalIncome
	}

	income := *p.TotalIncome
	if income.IsNegative() {
		return AuditRecord{}, fmt.Errorf("%w: total_income=%s", ErrNegativeAggregate, income)
	}
	if p.TotalExpenses.IsNegative() {
		return AuditRecord{}, fmt.Errorf("%w: total_expenses=%s", ErrNegativeAggregate, p.TotalExpenses)
	}
	if p.TotalDebt.IsNegative() {
		return AuditRecord{}, fmt.Errorf("%w: total_debt=%s", ErrNegativeAggregate, p.TotalDebt)
	}

	maxRent, canAfford := EvaluateAffordability(income, p.TargetRent)

	return AuditRecord{
		totalIncome:       income,
		totalExpenses:     p.TotalExpenses,
		totalDebt:         p.TotalDebt,
		maxAffordableRent: maxRent,
		targetRent:        p.TargetRent,
		canAfford:         canAfford,
		rule:              RuleRentToIncome30,
	}, nil
}

func (r AuditRecord) TotalIncome() decimal.Decimal       { return r.totalIncome }
func (r AuditRecord) TotalExpenses() decimal.Decimal     { return r.totalExpenses }
func (r AuditRecord) TotalDebt() decimal.Decimal         { return r.totalDebt }
func (r AuditRecord) MaxAffordableRent() decimal.Decimal { return r.maxAffordableRent }
func (r AuditRecord) TargetRent() decimal.NullDecimal    { return r.targetRent }
func (r AuditRecord) CanAfford() bool                    { return r.canAfford }
func (r AuditRecord) Rule() string                       { return r.rule }

// IsZero reports whether r was never built by NewAuditRecord.
func (r AuditRecord) IsZero() bool {
	return r.rule == ""
}

type auditRecordJSON struct {
	TotalIncome       decimal.Decimal     `json:"total_income"`
	TotalExpenses     decimal.Decimal     `json:"total_expenses"`
	TotalDebt         decimal.Decimal     `json:"total_debt"`
	MaxAffordableRent decimal.Decimal     `json:"max_affordable_rent"`
	TargetRent        decimal.NullDecimal `json:"target_rent"`
	CanAfford         bool                `json:"can_afford"`
	Rule              string              `json:"rule"`
}

// MarshalJSON implements json.Marshaler.
func (r AuditRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(auditRecordJSON{
		TotalIncome:       r.totalIncome,
		TotalExpenses:     r.totalExpenses,
		TotalDebt:         r.totalDebt,
		MaxAffordableRent: r.maxAffordableRent,
		TargetRent:        r.targetRent,
		CanAfford:         r.canAfford,
		Rule:              r.rule,
	})
}

// UnmarshalJSON rebuilds the record through NewAuditRecord and rejects
// payloads whose stored conclusions disagree with their figures.
func (r *AuditRecord) UnmarshalJSON(data []byte) error {
	var raw auditRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rebuilt, err := NewAuditRecord(AuditParams{
		TotalIncome:   &raw.TotalIncome,
		TotalExpenses: raw.TotalExpenses,
		TotalDebt:     raw.TotalDebt,
		TargetRent:    raw.TargetRent,
	})
	if err != nil {
		return err
	}

	if raw.CanAfford != rebuilt.canAfford ||
		!raw.MaxAffordableRent.Equal(rebuilt.maxAffordableRent) ||
		(raw.Rule != "" && raw.Rule != rebuilt.rule) {
		return fmt.Errorf("%w: can_afford=%t max_affordable_rent=%s",
			ErrTamperedAuditRecord, raw.CanAfford, raw.MaxAffordableRent)
	}

	*r = rebuilt
	return nil
}
