package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/propma/affordability/internal/adapter/http/handler"
	"github.com/propma/affordability/internal/adapter/http/middleware"
	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/infrastructure/auth"
	"github.com/propma/affordability/internal/infrastructure/metrics"
	"github.com/propma/affordability/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional parts are
// skipped when nil.
type RouterConfig struct {
	AssessmentHandler *handler.AssessmentHandler
	ExtractHandler    *handler.ExtractHandler
	HealthHandler     *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	JWTManager       *auth.JWTManager
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	var authenticate func(http.Handler) http.Handler
	requireRole := func(domain.Role) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.JWTManager != nil {
		authenticate = middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics)
		requireRole = middleware.RequireRole
	}

	idempotent := func(next http.Handler) http.Handler { return next }
	if cfg.IdempotencyStore != nil {
		idempotent = middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap
	}

	// Pre-v1 route, kept for existing callers.
	r.Group(func(r chi.Router) {
		if authenticate != nil {
			r.Use(authenticate)
		}
		r.With(requireRole(domain.RoleAgent), idempotent).Post("/analyze-affordability", cfg.AssessmentHandler.Create)
	})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if authenticate != nil {
			r.Use(authenticate)
		}

		// Assessments
		r.Route("/assessments", func(r chi.Router) {
			r.With(requireRole(domain.RoleAgent), idempotent).Post("/", cfg.AssessmentHandler.Create)
			r.With(requireRole(domain.RoleAgent)).Post("/preview", cfg.AssessmentHandler.Preview)
			r.With(requireRole(domain.RoleViewer)).Get("/", cfg.AssessmentHandler.List)
			r.With(requireRole(domain.RoleViewer)).Get("/{id}", cfg.AssessmentHandler.Get)
		})

		// Extractors
		r.Route("/extract", func(r chi.Router) {
			r.Use(requireRole(domain.RoleAgent))
			r.Post("/payslip", cfg.ExtractHandler.Payslip)
			r.Post("/statement", cfg.ExtractHandler.Statement)
		})
	})

	return r
}
