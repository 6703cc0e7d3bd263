package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Assessment metrics
	AssessmentsCreated  *prometheus.CounterVec
	AssessmentDuration  prometheus.Histogram
	AssessmentIncome    prometheus.Histogram
	AssessmentErrors    *prometheus.CounterVec
	TransactionsScanned *prometheus.CounterVec

	// Explanation step metrics
	ExplainerCalls    *prometheus.CounterVec
	ExplainerDuration *prometheus.HistogramVec

	// Normalizer metrics
	FieldsDefaulted  *prometheus.CounterVec
	VerdictOverrides prometheus.Counter

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Assessment metrics
		AssessmentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_assessments_total",
				Help: "Total assessments by verdict",
			},
			[]string{"can_afford"},
		),
		AssessmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "affordability_assessment_duration_seconds",
			Help:    "Duration of full assessments",
			Buckets: prometheus.DefBuckets,
		}),
		AssessmentIncome: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "affordability_assessment_total_income",
			Help:    "Total monthly income per audit record",
			Buckets: []float64{0, 1000, 5000, 10000, 25000, 50000, 100000, 250000},
		}),
		AssessmentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_assessment_errors_total",
				Help: "Total assessment errors by type",
			},
			[]string{"error_type"},
		),
		TransactionsScanned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_transactions_total",
				Help: "Transactions aggregated by source",
			},
			[]string{"source"},
		),

		// Explanation step metrics
		ExplainerCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_explainer_calls_total",
				Help: "Explanation step calls by provider and status",
			},
			[]string{"provider", "status"},
		),
		ExplainerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affordability_explainer_duration_seconds",
				Help:    "Explanation step latency",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider"},
		),

		// Normalizer metrics
		FieldsDefaulted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_fields_defaulted_total",
				Help: "Result fields filled with defaults by section",
			},
			[]string{"section"},
		),
		VerdictOverrides: factory.NewCounter(prometheus.CounterOpts{
			Name: "affordability_verdict_overrides_total",
			Help: "Explanations whose can_afford disagreed with the audit record",
		}),

		// Cache metrics
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_cache_lookups_total",
				Help: "Assessment cache lookups by result",
			},
			[]string{"result"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "affordability_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "affordability_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_events_published_total",
				Help: "Outbox events published by type",
			},
			[]string{"event_type"},
		),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "affordability_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
