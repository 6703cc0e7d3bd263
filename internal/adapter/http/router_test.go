package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/propma/affordability/internal/adapter/http/handler"
	apimiddleware "github.com/propma/affordability/internal/adapter/http/middleware"
	"github.com/propma/affordability/internal/affordability"
	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/infrastructure/auth"
	"github.com/propma/affordability/internal/infrastructure/metrics"
	"github.com/propma/affordability/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyOnlyOnCreate(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"transactions": [], "target_rent": 1000}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/preview", strings.NewReader(body))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if store.checkCalled {
		t.Fatalf("preview must not consult the idempotency store")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/assessments/", strings.NewReader(body))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_AnalyzeAffordabilityMatchesCreate(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"transactions": [], "target_rent": 1000}`
	responses := map[string]*httptest.ResponseRecorder{}
	for _, path := range []string{"/analyze-affordability", "/api/v1/assessments/"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-"+path)
		rec := httptest.NewRecorder()
		store.checkCalled = false
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
		if !store.checkCalled {
			t.Fatalf("%s: expected idempotency store to be used", path)
		}
		responses[path] = rec
	}

	legacy, current := responses["/analyze-affordability"], responses["/api/v1/assessments/"]
	if legacy.Body.String() != current.Body.String() {
		t.Fatalf("expected identical bodies, got %s and %s", legacy.Body.String(), current.Body.String())
	}
	if legacy.Header().Get("X-Assessment-ID") == "" {
		t.Fatalf("expected X-Assessment-ID on the legacy route")
	}
}

func TestNewRouter_AuthEnforcesRoles(t *testing.T) {
	manager := auth.NewJWTManager("router-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = manager
	}))

	viewer, _ := manager.Generate("viewer-1", domain.RoleViewer)
	agent, _ := manager.Generate("agent-1", domain.RoleAgent)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		expected int
	}{
		{"anonymous create", http.MethodPost, "/api/v1/assessments/", "", http.StatusUnauthorized},
		{"viewer create", http.MethodPost, "/api/v1/assessments/", viewer, http.StatusForbidden},
		{"agent create", http.MethodPost, "/api/v1/assessments/", agent, http.StatusOK},
		{"viewer list", http.MethodGet, "/api/v1/assessments/", viewer, http.StatusOK},
		{"viewer extract", http.MethodPost, "/api/v1/extract/payslip", viewer, http.StatusForbidden},
		{"anonymous analyze-affordability", http.MethodPost, "/analyze-affordability", "", http.StatusUnauthorized},
		{"viewer analyze-affordability", http.MethodPost, "/analyze-affordability", viewer, http.StatusForbidden},
		{"agent analyze-affordability", http.MethodPost, "/analyze-affordability", agent, http.StatusOK},
		{"health stays public", http.MethodGet, "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{"transactions": [], "target_rent": 1000}`))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.Gatherer = registry
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "affordability_http_requests_total") {
		t.Fatalf("expected http metrics in exposition")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /analyze-affordability",
		"POST /api/v1/assessments/",
		"POST /api/v1/assessments/preview",
		"GET /api/v1/assessments/",
		"GET /api/v1/assessments/{id}",
		"POST /api/v1/extract/payslip",
		"POST /api/v1/extract/statement",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered, have %v", route, seen)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AssessmentHandler: handler.NewAssessmentHandler(&stubAssessmentService{}),
		ExtractHandler:    handler.NewExtractHandler(),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
		Gatherer:          prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAssessmentService struct{}

func (stubAssessmentService) Assess(ctx context.Context, input usecase.AssessInput) (*domain.Assessment, error) {
	income := decimal.NewFromInt(5000)
	record, err := domain.NewAuditRecord(domain.AuditParams{TotalIncome: &income, TargetRent: input.TargetRent})
	if err != nil {
		return nil, err
	}
	return &domain.Assessment{ID: "01HZY8K3T1D5B0M9X7F2Q4R6S8", Record: record}, nil
}

func (stubAssessmentService) Preview(ctx context.Context, input usecase.AssessInput) (affordability.Analysis, error) {
	return affordability.NewEngine(nil).Analyze(affordability.Input{TargetRent: input.TargetRent})
}

func (stubAssessmentService) GetAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	return nil, domain.ErrAssessmentNotFound
}

func (stubAssessmentService) ListAssessments(ctx context.Context, filter domain.AssessmentFilter) ([]*domain.Assessment, error) {
	return []*domain.Assessment{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
