package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/affordability"
	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/infrastructure/logger"
	"github.com/propma/affordability/internal/infrastructure/metrics"
	"github.com/propma/affordability/internal/normalize"
)

// AssessmentDeps are the collaborators of AssessmentUseCase. Persistence,
// cache and metrics are optional; the CLI runs without them. IDGen defaults
// to ULIDs.
type AssessmentDeps struct {
	Engine      *affordability.Engine
	Explainer   Explainer
	TxManager   TransactionManager
	Assessments AssessmentRepository
	Outbox      OutboxRepository
	Retrier     Retrier
	IDGen       IDGenerator
	Cache       Cache
	CacheTTL    time.Duration
	Metrics     *metrics.Metrics
}

// AssessmentUseCase runs the affordability pipeline: deterministic record,
// explanation, normalization, persistence.
type AssessmentUseCase struct {
	deps AssessmentDeps
	now  func() time.Time
}

// NewAssessmentUseCase creates a new AssessmentUseCase.
func NewAssessmentUseCase(deps AssessmentDeps) *AssessmentUseCase {
	if deps.Engine == nil {
		deps.Engine = affordability.NewEngine(nil)
	}
	if deps.IDGen == nil {
		deps.IDGen = ulidGenerator{}
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = DefaultCacheTTL
	}
	return &AssessmentUseCase{
		deps: deps,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// AssessInput represents input for an assessment.
type AssessInput struct {
	ApplicationRef  string
	Transactions    []domain.Transaction
	StatementText   string
	Payslip         *domain.Payslip
	TenantIncome    *domain.TenantIncome
	CreditReport    *domain.CreditReport
	TargetRent      decimal.NullDecimal
	SkipExplanation bool
}

func (in AssessInput) engineInput() affordability.Input {
	return affordability.Input{
		Transactions:  in.Transactions,
		StatementText: in.StatementText,
		Payslip:       in.Payslip,
		CreditReport:  in.CreditReport,
		TargetRent:    in.TargetRent,
	}
}

func (in AssessInput) validate() error {
	if err := domain.ValidateApplicationRef(in.ApplicationRef); err != nil {
		return err
	}

	texts := []string{in.StatementText}
	if in.Payslip != nil {
		texts = append(texts, in.Payslip.RawText)
	}
	return domain.ValidateDocuments(len(in.Transactions), texts...)
}

// Preview computes the audit record without explanation or persistence.
func (uc *AssessmentUseCase) Preview(ctx context.Context, input AssessInput) (affordability.Analysis, error) {
	if err := input.validate(); err != nil {
		return affordability.Analysis{}, err
	}
	return uc.deps.Engine.Analyze(input.engineInput())
}

// Assess runs a full assessment.
func (uc *AssessmentUseCase) Assess(ctx context.Context, input AssessInput) (*domain.Assessment, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	if err := input.validate(); err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(input)
	if cached := uc.fromCache(ctx, fingerprint); cached != nil {
		log.Debug().Str("assessment_id", cached.ID).Msg("assessment served from cache")
		return cached, nil
	}

	analysis, err := uc.deps.Engine.Analyze(input.engineInput())
	if err != nil {
		uc.countError(err)
		return nil, err
	}
	record := analysis.Record

	raw, explainer, explainErr := uc.explain(ctx, input, analysis)

	modelOutput, _ := normalize.DecodeModelOutput(raw)
	if claimed, ok := normalize.ClaimedCanAfford(modelOutput); ok && claimed != record.CanAfford() {
		log.Warn().
			Bool("claimed", claimed).
			Bool("can_afford", record.CanAfford()).
			Str("explainer", explainer).
			Msg("explanation contradicted audit record; verdict overridden")
		if uc.deps.Metrics != nil {
			uc.deps.Metrics.VerdictOverrides.Inc()
		}
	}

	result := normalize.Normalize(modelOutput, record)
	if explainErr != nil {
		result.MissingFieldsNotes[FieldExplanation] = noteExplanationUnavailable
	}
	uc.countDefaults(result)

	if err := normalize.ValidateResult(result); err != nil {
		uc.countError(err)
		return nil, err
	}

	assessment := &domain.Assessment{
		ID:               uc.deps.IDGen.Generate(),
		ApplicationRef:   strings.TrimSpace(input.ApplicationRef),
		InputFingerprint: fingerprint,
		Record:           record,
		Result:           result,
		RawExplanation:   raw,
		Explainer:        explainer,
		CreatedAt:        uc.now(),
	}

	if err := uc.persist(ctx, assessment); err != nil {
		uc.countError(err)
		return nil, err
	}

	uc.toCache(ctx, assessment)

	if uc.deps.Metrics != nil {
		uc.deps.Metrics.AssessmentDuration.Observe(time.Since(start).Seconds())
	}

	log.Info().
		Str("assessment_id", assessment.ID).
		Bool("can_afford", record.CanAfford()).
		Str("explainer", explainer).
		Dur("elapsed", time.Since(start)).
		Msg("assessment completed")

	return assessment, nil
}

// GetAssessment returns a stored assessment.
func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	if err := domain.ValidateAssessmentID(id); err != nil {
		return nil, err
	}
	if uc.deps.Assessments == nil {
		return nil, domain.ErrAssessmentNotFound
	}
	return uc.deps.Assessments.GetByID(ctx, id)
}

// ListAssessments returns stored assessments, newest first.
func (uc *AssessmentUseCase) ListAssessments(ctx context.Context, filter domain.AssessmentFilter) ([]*domain.Assessment, error) {
	if err := domain.ValidateApplicationRef(filter.ApplicationRef); err != nil {
		return nil, err
	}

	limit, offset, err := domain.ValidatePagination(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = limit, offset

	if uc.deps.Assessments == nil {
		return []*domain.Assessment{}, nil
	}
	return uc.deps.Assessments.List(ctx, filter)
}

func (uc *AssessmentUseCase) explain(ctx context.Context, input AssessInput, analysis affordability.Analysis) (string, string, error) {
	if uc.deps.Explainer == nil || input.SkipExplanation {
		return "", "", nil
	}

	name := uc.deps.Explainer.Name()
	raw, err := uc.deps.Explainer.Explain(ctx, domain.ExplanationRequest{
		Record:       analysis.Record,
		Transactions: analysis.Transactions,
		Payslip:      input.Payslip,
		TenantIncome: input.TenantIncome,
		CreditReport: input.CreditReport,
	})
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("explainer", name).Msg("explanation step failed")
		return "", name, err
	}
	return raw, name, nil
}

func (uc *AssessmentUseCase) persist(ctx context.Context, assessment *domain.Assessment) error {
	if uc.deps.Assessments == nil || uc.deps.TxManager == nil {
		return nil
	}

	op := func() error {
		ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.deps.TxManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.deps.Assessments.Create(ctx, tx, assessment); err != nil {
			return err
		}

		if uc.deps.Outbox != nil {
			event := &domain.OutboxEvent{
				ID:            uc.deps.IDGen.Generate(),
				AggregateID:   assessment.ID,
				AggregateType: domain.AggregateTypeAssessment,
				EventType:     domain.EventTypeAssessmentCompleted,
				Payload:       domain.NewAssessmentCompletedEvent(assessment).AsPayload(),
				CreatedAt:     assessment.CreatedAt,
			}
			if err := uc.deps.Outbox.Create(ctx, tx, event); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	}

	if uc.deps.Retrier != nil {
		return uc.deps.Retrier.Retry(ctx, op)
	}
	return op()
}

// assessmentSnapshot is the cached form of an assessment.
type assessmentSnapshot struct {
	ID               string                  `json:"id"`
	ApplicationRef   string                  `json:"application_ref,omitempty"`
	InputFingerprint string                  `json:"input_fingerprint"`
	Record           domain.AuditRecord      `json:"audit_record"`
	Result           domain.NormalizedResult `json:"result"`
	RawExplanation   string                  `json:"raw_explanation"`
	Explainer        string                  `json:"explainer"`
	CreatedAt        time.Time               `json:"created_at"`
}

func (uc *AssessmentUseCase) fromCache(ctx context.Context, fingerprint string) *domain.Assessment {
	if uc.deps.Cache == nil {
		return nil
	}

	data, err := uc.deps.Cache.Get(ctx, assessmentCachePrefix+fingerprint)
	if err != nil || data == nil {
		uc.countCache("miss")
		return nil
	}

	var snap assessmentSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A tampered or stale entry is dropped and recomputed.
		logger.FromContext(ctx).Warn().Err(err).Msg("discarding unreadable cached assessment")
		_ = uc.deps.Cache.Delete(ctx, assessmentCachePrefix+fingerprint)
		uc.countCache("invalid")
		return nil
	}

	uc.countCache("hit")
	return &domain.Assessment{
		ID:               snap.ID,
		ApplicationRef:   snap.ApplicationRef,
		InputFingerprint: snap.InputFingerprint,
		Record:           snap.Record,
		Result:           snap.Result,
		RawExplanation:   snap.RawExplanation,
		Explainer:        snap.Explainer,
		CreatedAt:        snap.CreatedAt,
	}
}

func (uc *AssessmentUseCase) toCache(ctx context.Context, a *domain.Assessment) {
	if uc.deps.Cache == nil {
		return
	}
	if _, failed := a.Result.MissingFieldsNotes[FieldExplanation]; failed {
		return
	}

	data, err := json.Marshal(assessmentSnapshot{
		ID:               a.ID,
		ApplicationRef:   a.ApplicationRef,
		InputFingerprint: a.InputFingerprint,
		Record:           a.Record,
		Result:           a.Result,
		RawExplanation:   a.RawExplanation,
		Explainer:        a.Explainer,
		CreatedAt:        a.CreatedAt,
	})
	if err != nil {
		return
	}

	if err := uc.deps.Cache.Set(ctx, assessmentCachePrefix+a.InputFingerprint, data, uc.deps.CacheTTL); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to cache assessment")
	}
}

func (uc *AssessmentUseCase) countCache(result string) {
	if uc.deps.Metrics != nil {
		uc.deps.Metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (uc *AssessmentUseCase) countDefaults(result domain.NormalizedResult) {
	if uc.deps.Metrics == nil {
		return
	}
	for path := range result.MissingFieldsNotes {
		section := path
		if i := strings.IndexByte(path, '.'); i > 0 {
			section = path[:i]
		}
		uc.deps.Metrics.FieldsDefaulted.WithLabelValues(section).Inc()
	}
}

func (uc *AssessmentUseCase) countError(err error) {
	if uc.deps.Metrics == nil {
		return
	}
	errType := "internal"
	switch {
	case errors.Is(err, domain.ErrInvalidTargetRent):
		errType = "invalid_target_rent"
	case errors.Is(err, domain.ErrResultSchemaViolation):
		errType = "schema_violation"
	case errors.Is(err, domain.ErrMissingTotalIncome), errors.Is(err, domain.ErrNegativeAggregate):
		errType = "contract_violation"
	}
	uc.deps.Metrics.AssessmentErrors.WithLabelValues(errType).Inc()
}

// ParseTargetRent converts an optional numeric string into a target rent.
func ParseTargetRent(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return decimal.NullDecimal{}, domain.ErrInvalidTargetRent
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, domain.ErrInvalidTargetRent
	}
	return decimal.NewNullDecimal(d), nil
}
