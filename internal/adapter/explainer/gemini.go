package explainer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// generateFunc matches genai's Models.GenerateContent.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiExplainer calls Google's Gemini API.
type GeminiExplainer struct {
	generate generateFunc
	model    string
	log      zerolog.Logger
}

// NewGeminiExplainer creates a Gemini-backed explainer.
func NewGeminiExplainer(ctx context.Context, apiKey, model string, log zerolog.Logger) (*GeminiExplainer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiExplainer{
		generate: client.Models.GenerateContent,
		model:    model,
		log:      log,
	}, nil
}

// Name returns the provider name.
func (g *GeminiExplainer) Name() string {
	return ProviderGemini
}

// Explain asks Gemini to narrate the audit record.
func (g *GeminiExplainer) Explain(ctx context.Context, req Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	system, user, err := BuildPrompt(req)
	if err != nil {
		return "", err
	}

	g.log.Info().
		Str("req_id", rid).
		Str("model", g.model).
		Int("prompt_len", len(user)).
		Msg("explainer.gemini.start")

	resp, err := g.generate(ctx, g.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		g.log.Error().
			Err(err).
			Str("req_id", rid).
			Dur("elapsed", time.Since(start)).
			Msg("explainer.gemini.error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyResponse
	}

	g.log.Info().
		Str("req_id", rid).
		Int("response_len", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("explainer.gemini.ok")

	return text, nil
}
