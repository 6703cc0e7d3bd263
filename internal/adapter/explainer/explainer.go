// Package explainer implements the generative explanation step. Every
// explainer receives a finished audit record and returns free text, usually
// JSON, that the normalizer turns into a result.
package explainer

import (
	"errors"

	"github.com/propma/affordability/internal/domain"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
	ProviderStatic = "none"
)

// Request is the context handed to an explainer.
type Request = domain.ExplanationRequest

// errEmptyResponse is returned when the provider answered with no text.
var errEmptyResponse = errors.New("explainer returned an empty response")
