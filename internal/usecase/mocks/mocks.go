package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/usecase"
)

// InMemoryAssessmentRepository is a map-backed AssessmentRepository.
type InMemoryAssessmentRepository struct {
	mu          sync.RWMutex
	assessments map[string]*domain.Assessment

	CreateFunc func(ctx context.Context, tx usecase.Transaction, assessment *domain.Assessment) error
}

func NewInMemoryAssessmentRepository() *InMemoryAssessmentRepository {
	return &InMemoryAssessmentRepository{
		assessments: make(map[string]*domain.Assessment),
	}
}

func (m *InMemoryAssessmentRepository) Create(ctx context.Context, tx usecase.Transaction, assessment *domain.Assessment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, assessment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments[assessment.ID] = assessment
	return nil
}

func (m *InMemoryAssessmentRepository) GetByID(ctx context.Context, id string) (*domain.Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assessments[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAssessmentNotFound
}

func (m *InMemoryAssessmentRepository) List(ctx context.Context, filter domain.AssessmentFilter) ([]*domain.Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Assessment
	for _, a := range m.assessments {
		if filter.ApplicationRef != "" && a.ApplicationRef != filter.ApplicationRef {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset >= len(out) {
		return []*domain.Assessment{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Len returns the number of stored assessments.
func (m *InMemoryAssessmentRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assessments)
}

// StubTransactionManager is a Func-field TransactionManager.
type StubTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewStubTransactionManager() *StubTransactionManager {
	return &StubTransactionManager{}
}

func (m *StubTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &StubTransaction{}, nil
}

// StubTransaction is a Func-field Transaction.
type StubTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *StubTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *StubTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// StubIDGenerator returns sequential ids unless GenerateFunc is set.
type StubIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (m *StubIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// StubRetrier runs the operation once unless RetryFunc is set.
type StubRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
	Calls     int
}

func (m *StubRetrier) Retry(ctx context.Context, operation func() error) error {
	m.Calls++
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// StubIdempotencyStore is a map-backed IdempotencyStore.
type StubIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewStubIdempotencyStore() *StubIdempotencyStore {
	return &StubIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *StubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *StubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
