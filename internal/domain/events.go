package domain

import "time"

// Event types
const (
	EventTypeAssessmentCompleted = "assessment.completed"
)

// Aggregate types
const (
	AggregateTypeAssessment = "assessment"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// AssessmentCompletedEvent payload
type AssessmentCompletedEvent struct {
	AssessmentID      string `json:"assessment_id"`
	ApplicationRef    string `json:"application_ref,omitempty"`
	CanAfford         bool   `json:"can_afford"`
	TotalIncome       string `json:"total_income"`
	MaxAffordableRent string `json:"max_affordable_rent"`
	TargetRent        string `json:"target_rent,omitempty"`
	EventAt           string `json:"event_at"`
}

// NewAssessmentCompletedEvent builds the outbox payload for a stored assessment.
func NewAssessmentCompletedEvent(a *Assessment) AssessmentCompletedEvent {
	ev := AssessmentCompletedEvent{
		AssessmentID:      a.ID,
		ApplicationRef:    a.ApplicationRef,
		CanAfford:         a.Record.CanAfford(),
		TotalIncome:       a.Record.TotalIncome().String(),
		MaxAffordableRent: a.Record.MaxAffordableRent().String(),
		EventAt:           a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if rent := a.Record.TargetRent(); rent.Valid {
		ev.TargetRent = rent.Decimal.String()
	}
	return ev
}

// AsPayload converts the event to the generic outbox payload shape.
func (e AssessmentCompletedEvent) AsPayload() map[string]any {
	payload := map[string]any{
		"assessment_id":       e.AssessmentID,
		"can_afford":          e.CanAfford,
		"total_income":        e.TotalIncome,
		"max_affordable_rent": e.MaxAffordableRent,
		"event_at":            e.EventAt,
	}
	if e.ApplicationRef != "" {
		payload["application_ref"] = e.ApplicationRef
	}
	if e.TargetRent != "" {
		payload["target_rent"] = e.TargetRent
	}
	return payload
}
