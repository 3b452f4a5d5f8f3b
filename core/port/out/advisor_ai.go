// Package out defines outbound ports (driven ports) for the application.
package out

import (
	"context"

	"advisor_server/core/domain"
)

// =============================================================================
// AI text / image
// =============================================================================

// TextGenerator produces free text for a prompt. system is sent as the
// system instruction; adapters may ignore it.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ImageRequest is one image generation call.
type ImageRequest struct {
	Prompt      string
	Dimensions  domain.Dimensions
	AspectRatio string
}

// ImageGenerator returns the generated image as a data URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// =============================================================================
// Translation
// =============================================================================

// Translator translates between language codes such as "en-IN" and "ta-IN".
type Translator interface {
	Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error)
}

// =============================================================================
// Analysis cache
// =============================================================================

// AnalysisCache stores parsed analysis responses by key.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*domain.AnalysisResponse, bool)
	Set(ctx context.Context, key string, resp *domain.AnalysisResponse) error
}
