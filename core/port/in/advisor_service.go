// Package in defines inbound ports (use cases) for the application.
package in

import (
	"context"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"
)

// AdvisorUseCase is everything the HTTP host can ask of the advisor.
type AdvisorUseCase interface {
	// Analysis
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error)
	Score(ctx context.Context, req *ScoreRequest) (*domain.ScoreBreakdown, error)
	SessionScore(ctx context.Context, sessionID string) (*domain.ScoreSnapshot, error)

	// Apply
	ClassifyRecommendation(ctx context.Context, text string) (*domain.ClassifiedRecommendation, error)
	ApplyRecommendation(ctx context.Context, req *ApplyRecommendationRequest) (*ApplyResult, error)
	ApplySuggestion(ctx context.Context, req *ApplySuggestionRequest) (*ApplyResult, error)

	// Image elements
	GenerateElement(ctx context.Context, req *GenerateElementRequest) (*GenerateElementResult, error)
	GenerateElements(ctx context.Context, reqs []*GenerateElementRequest) ([]*GenerateElementResult, error)

	// Lookup
	Regions(ctx context.Context) []domain.RegionProfile
	Region(ctx context.Context, name string) (*domain.RegionProfile, error)
	Translate(ctx context.Context, req *TranslateRequest) (*TranslateResult, error)
}

// AnalyzeRequest asks for a regional analysis. Element is optional: the
// first selected node is used, then the empty canvas.
type AnalyzeRequest struct {
	SessionID string                    `json:"session_id,omitempty"`
	Region    string                    `json:"region"`
	Language  string                    `json:"language"`
	Element   *domain.ElementDescriptor `json:"element,omitempty"`
}

// SuggestionView is a suggestion as shown to the client.
type SuggestionView struct {
	ID      string `json:"id"`
	Applied bool   `json:"applied"`
	domain.SuggestionPayload
}

// AnalyzeResult is one analysis.
type AnalyzeResult struct {
	SessionID       string                   `json:"session_id"`
	Region          string                   `json:"region"`
	Language        string                   `json:"language"`
	Element         domain.ElementDescriptor `json:"element"`
	Breakdown       domain.ScoreBreakdown    `json:"breakdown"`
	AIScore         int                      `json:"ai_score"`
	BaseScore       int                      `json:"base_score"`
	Score           int                      `json:"score"`
	Analysis        string                   `json:"analysis"`
	Suggestions     []SuggestionView         `json:"suggestions"`
	Recommendations []string                 `json:"recommendations"`
	Cached          bool                     `json:"cached"`
	Degraded        bool                     `json:"degraded"`
}

// ScoreRequest computes the deterministic score only.
type ScoreRequest struct {
	Region   string                    `json:"region"`
	Language string                    `json:"language"`
	Element  *domain.ElementDescriptor `json:"element,omitempty"`
}

// ApplyRecommendationRequest classifies and applies one free-text
// recommendation.
type ApplyRecommendationRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	Region     string `json:"region"`
	Language   string `json:"language"`
	Text       string `json:"text"`
	UseAIHints bool   `json:"use_ai_hints,omitempty"`
}

// ApplySuggestionRequest applies a parsed suggestion.
type ApplySuggestionRequest struct {
	SessionID  string                   `json:"session_id,omitempty"`
	Region     string                   `json:"region"`
	Language   string                   `json:"language"`
	Suggestion domain.SuggestionPayload `json:"suggestion"`
}

// ApplyResult reports what changed in the document.
type ApplyResult struct {
	Kind           string                           `json:"kind"`
	Message        string                           `json:"message"`
	Nodes          []out.Node                       `json:"nodes"`
	Classified     *domain.ClassifiedRecommendation `json:"classified,omitempty"`
	SuggestionID   string                           `json:"suggestion_id,omitempty"`
	BonusAwarded   bool                             `json:"bonus_awarded"`
	AlreadyApplied bool                             `json:"already_applied"`
	Score          *domain.ScoreSnapshot            `json:"score,omitempty"`
}

// GenerateElementRequest asks for one regional image element. Prompt, when
// set, is used as the description fed into the regional template.
type GenerateElementRequest struct {
	Region      string             `json:"region"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Prompt      string             `json:"prompt,omitempty"`
	Dimensions  *domain.Dimensions `json:"dimensions,omitempty"`
	Insert      bool               `json:"insert"`
}

// GenerateElementResult carries the image and, when inserted, its node.
type GenerateElementResult struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Prompt      string            `json:"prompt"`
	Dimensions  domain.Dimensions `json:"dimensions"`
	AspectRatio string            `json:"aspect_ratio"`
	ImageURL    string            `json:"image_url,omitempty"`
	Node        *out.Node         `json:"node,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// TranslateRequest translates between language names or codes.
type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// TranslateResult is the translated text.
type TranslateResult struct {
	Text       string `json:"text"`
	SourceCode string `json:"source_code"`
	TargetCode string `json:"target_code"`
	Translated bool   `json:"translated"`
}
