package explainer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/propma/affordability/internal/infrastructure/config"
	"github.com/propma/affordability/internal/infrastructure/metrics"
)

// FromConfig builds the configured provider wrapped in a RetryingExplainer.
// EXPLAINER=none selects StaticExplainer, which needs no network and is not
// retried.
func FromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log zerolog.Logger) (Explainer, error) {
	var provider Explainer

	switch cfg.Explainer {
	case config.ExplainerNone, "":
		return StaticExplainer{}, nil
	case config.ExplainerGemini:
		g, err := NewGeminiExplainer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			return nil, err
		}
		provider = g
	case config.ExplainerAzure:
		provider = NewAzureOpenAIExplainer(AzureConfig{
			APIKey:         cfg.AzureAPIKey,
			Endpoint:       cfg.AzureEndpoint,
			APIVersion:     cfg.AzureAPIVersion,
			DeploymentName: cfg.AzureDeployment,
		}, log)
	default:
		return nil, fmt.Errorf("unknown explainer %q", cfg.Explainer)
	}

	return NewRetryingExplainer(provider, cfg.ExplainerMaxRetries, cfg.ExplainerTimeout, m, log), nil
}
