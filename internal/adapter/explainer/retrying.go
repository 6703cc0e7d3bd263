package explainer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/propma/affordability/internal/domain"
	"github.com/propma/affordability/internal/infrastructure/metrics"
)

// Explainer is the provider contract wrapped by RetryingExplainer.
type Explainer interface {
	Name() string
	Explain(ctx context.Context, req Request) (string, error)
}

// RetryingExplainer adds a timeout, bounded retries and metrics around an
// explainer. Exhausted retries surface as domain.ErrExplainerUnavailable.
type RetryingExplainer struct {
	next            Explainer
	maxRetries      int
	timeout         time.Duration
	initialInterval time.Duration
	maxInterval     time.Duration
	metrics         *metrics.Metrics
	log             zerolog.Logger
}

// NewRetryingExplainer wraps next. m may be nil.
func NewRetryingExplainer(next Explainer, maxRetries int, timeout time.Duration, m *metrics.Metrics, log zerolog.Logger) *RetryingExplainer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingExplainer{
		next:            next,
		maxRetries:      maxRetries,
		timeout:         timeout,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     5 * time.Second,
		metrics:         m,
		log:             log,
	}
}

// Name returns the wrapped provider's name.
func (r *RetryingExplainer) Name() string {
	return r.next.Name()
}

// Explain calls the wrapped explainer, retrying transient failures.
func (r *RetryingExplainer) Explain(ctx context.Context, req Request) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = 0

	start := time.Now()
	attempt := 0
	var text string

	err := backoff.Retry(func() error {
		attempt++
		out, err := r.next.Explain(ctx, req)
		if err == nil {
			text = out
			return nil
		}

		if !isRetryable(ctx, err) {
			return backoff.Permanent(err)
		}

		if attempt > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.log.Warn().
			Err(err).
			Str("provider", r.next.Name()).
			Int("retry", attempt).
			Msg("explanation step failed, retrying")

		return err
	}, backoff.WithContext(b, ctx))

	r.observe(err, time.Since(start))

	if err != nil {
		return "", fmt.Errorf("%w: %s after %d attempt(s): %v", domain.ErrExplainerUnavailable, r.next.Name(), attempt, err)
	}
	return text, nil
}

func (r *RetryingExplainer) observe(err error, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ExplainerCalls.WithLabelValues(r.next.Name(), status).Inc()
	r.metrics.ExplainerDuration.WithLabelValues(r.next.Name()).Observe(elapsed.Seconds())
}

// isRetryable treats client-side HTTP errors as permanent, except 408 and 429.
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusTooManyRequests,
			statusErr.Code == http.StatusRequestTimeout,
			statusErr.Code >= 500:
			return true
		default:
			return false
		}
	}
	return true
}
