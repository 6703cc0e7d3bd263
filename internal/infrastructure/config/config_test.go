package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/propma/affordability/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.JWTSecret != "" {
		t.Fatalf("expected JWT secret default to be empty, got %q", cfg.JWTSecret)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.Explainer != config.ExplainerNone || cfg.ExplainerMaxRetries != 2 {
		t.Fatalf("unexpected explainer defaults: %s retries=%d", cfg.Explainer, cfg.ExplainerMaxRetries)
	}

	if cfg.AzureAPIVersion != "2024-08-01-preview" {
		t.Fatalf("unexpected Azure API version default %s", cfg.AzureAPIVersion)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("EXPLAINER", " Gemini ")
	t.Setenv("ASSESSMENT_CACHE_TTL", "5m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.Explainer != config.ExplainerGemini {
		t.Fatalf("expected explainer to be normalized, got %q", cfg.Explainer)
	}

	if cfg.AssessmentCacheTTL != 5*time.Minute {
		t.Fatalf("expected cache TTL override, got %s", cfg.AssessmentCacheTTL)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Explainer:      config.ExplainerNone,
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "none explainer",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "gemini without key",
			mutate:  func(c *config.Config) { c.Explainer = config.ExplainerGemini },
			wantErr: "GEMINI_API_KEY",
		},
		{
			name: "azure missing deployment",
			mutate: func(c *config.Config) {
				c.Explainer = config.ExplainerAzure
				c.AzureAPIKey = "key"
				c.AzureEndpoint = "https://example.openai.azure.com"
			},
			wantErr: "AZURE_OPENAI_DEPLOYMENT_NAME",
		},
		{
			name: "azure complete",
			mutate: func(c *config.Config) {
				c.Explainer = config.ExplainerAzure
				c.AzureAPIKey = "key"
				c.AzureEndpoint = "https://example.openai.azure.com"
				c.AzureDeployment = "gpt-4o"
			},
		},
		{
			name:    "unknown explainer",
			mutate:  func(c *config.Config) { c.Explainer = "claude" },
			wantErr: "unknown EXPLAINER",
		},
		{
			name:    "auth without secret",
			mutate:  func(c *config.Config) { c.AuthEnabled = true },
			wantErr: "JWT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
