package explainer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/propma/affordability/internal/infrastructure/config"
)

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	e, err := FromConfig(ctx, &config.Config{Explainer: config.ExplainerNone}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := e.(StaticExplainer); !ok {
		t.Fatalf("expected StaticExplainer, got %T", e)
	}

	e, err = FromConfig(ctx, &config.Config{
		Explainer:           config.ExplainerAzure,
		AzureAPIKey:         "key",
		AzureEndpoint:       "https://example.openai.azure.com",
		AzureDeployment:     "gpt-4o",
		ExplainerMaxRetries: 2,
		ExplainerTimeout:    time.Second,
	}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("azure: %v", err)
	}
	retrying, ok := e.(*RetryingExplainer)
	if !ok {
		t.Fatalf("expected RetryingExplainer, got %T", e)
	}
	if retrying.Name() != ProviderAzure || retrying.maxRetries != 2 {
		t.Fatalf("unexpected wrapper: name=%s retries=%d", retrying.Name(), retrying.maxRetries)
	}

	if _, err := FromConfig(ctx, &config.Config{Explainer: "openai"}, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown explainer")
	}
}
