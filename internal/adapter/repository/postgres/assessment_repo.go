package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/usecase"
)

// querier is the subset of pgxpool.Pool used for reads.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const assessmentColumns = `id, COALESCE(application_ref, ''), input_fingerprint, audit_record, result, raw_explanation, explainer, created_at`

// AssessmentRepository implements usecase.AssessmentRepository.
type AssessmentRepository struct {
	db querier
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{db: pool}
}

// Create inserts an assessment within a transaction.
func (r *AssessmentRepository) Create(ctx context.Context, tx usecase.Transaction, a *domain.Assessment) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	record, err := json.Marshal(a.Record)
	if err != nil {
		return err
	}
	result, err := json.Marshal(a.Result)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO assessments (
			id, application_ref, input_fingerprint, can_afford,
			total_income, max_affordable_rent, target_rent,
			audit_record, result, raw_explanation, explainer, created_at
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID,
		a.ApplicationRef,
		a.InputFingerprint,
		a.Record.CanAfford(),
		a.Record.TotalIncome(),
		a.Record.MaxAffordableRent(),
		a.Record.TargetRent(),
		record,
		result,
		a.RawExplanation,
		a.Explainer,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// GetByID retrieves an assessment by ID. The stored audit record is
// re-verified on the way out.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = $1`, id)

	a, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// List retrieves assessments, newest first.
func (r *AssessmentRepository) List(ctx context.Context, filter domain.AssessmentFilter) ([]*domain.Assessment, error) {
	var (
		where []string
		args  []any
	)
	if filter.ApplicationRef != "" {
		args = append(args, filter.ApplicationRef)
		where = append(where, fmt.Sprintf("application_ref = $%d", len(args)))
	}

	query := `SELECT ` + assessmentColumns + ` FROM assessments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]*domain.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}

func scanAssessment(row pgx.Row) (*domain.Assessment, error) {
	var (
		a         domain.Assessment
		record    []byte
		result    []byte
		createdAt time.Time
	)

	if err := row.Scan(
		&a.ID,
		&a.ApplicationRef,
		&a.InputFingerprint,
		&record,
		&result,
		&a.RawExplanation,
		&a.Explainer,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(record, &a.Record); err != nil {
		return nil, fmt.Errorf("assessment %s: %w", a.ID, err)
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("assessment %s: decode result: %w", a.ID, err)
	}
	a.CreatedAt = createdAt.UTC()

	return &a, nil
}
