package domain

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"
)

// SuggestionKind discriminates suggestion variants.
type SuggestionKind string

const (
	SuggestionText       SuggestionKind = "text"
	SuggestionStyle      SuggestionKind = "style"
	SuggestionColor      SuggestionKind = "color"
	SuggestionImage      SuggestionKind = "elements"
	SuggestionLegacyText SuggestionKind = "legacy"
)

// Suggestion is one AI-proposed change. The variant set is closed.
type Suggestion interface {
	Kind() SuggestionKind
	ID() string
	isSuggestion()
}

// TextSuggestion replaces the content of a text node.
type TextSuggestion struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
}

// StyleSuggestion swaps a font/size combination, e.g. "Arial, 24pt".
type StyleSuggestion struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
}

// ColorSuggestion proposes a replacement colour; Suggestion carries a hex code.
type ColorSuggestion struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
}

// Dimensions of a generated image in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultDimensions apply when the AI omits them.
var DefaultDimensions = Dimensions{Width: 512, Height: 512}

// ImageSuggestion is an executable image-generation prompt.
type ImageSuggestion struct {
	Type          string     `json:"type"`
	Prompt        string     `json:"prompt"`
	Description   string     `json:"description"`
	Dimensions    Dimensions `json:"dimensions"`
	IsImagePrompt bool       `json:"isImagePrompt"`
}

// LegacyTextSuggestion is a free-form instruction that must be classified
// before it can be applied.
type LegacyTextSuggestion struct {
	Text string `json:"text"`
}

func (TextSuggestion) Kind() SuggestionKind       { return SuggestionText }
func (StyleSuggestion) Kind() SuggestionKind      { return SuggestionStyle }
func (ColorSuggestion) Kind() SuggestionKind      { return SuggestionColor }
func (ImageSuggestion) Kind() SuggestionKind      { return SuggestionImage }
func (LegacyTextSuggestion) Kind() SuggestionKind { return SuggestionLegacyText }

func (s TextSuggestion) ID() string  { return SuggestionID(s.Kind(), s.Original, s.Suggestion) }
func (s StyleSuggestion) ID() string { return SuggestionID(s.Kind(), s.Original, s.Suggestion) }
func (s ColorSuggestion) ID() string { return SuggestionID(s.Kind(), s.Original, s.Suggestion) }
func (s ImageSuggestion) ID() string { return SuggestionID(s.Kind(), s.Description, s.Prompt) }
func (s LegacyTextSuggestion) ID() string {
	return SuggestionID(s.Kind(), "", s.Text)
}

func (TextSuggestion) isSuggestion()       {}
func (StyleSuggestion) isSuggestion()      {}
func (ColorSuggestion) isSuggestion()      {}
func (ImageSuggestion) isSuggestion()      {}
func (LegacyTextSuggestion) isSuggestion() {}

// AwardsBonus reports whether applying s counts toward the score bonus.
// Only text, style and colour suggestions do.
func AwardsBonus(s Suggestion) bool {
	switch s.(type) {
	case TextSuggestion, StyleSuggestion, ColorSuggestion:
		return true
	default:
		return false
	}
}

// SuggestionID hashes "kind-original-suggestion" with the 31-multiplier
// string hash over UTF-16 units, so ids match those shown by the panel.
func SuggestionID(kind SuggestionKind, original, suggestion string) string {
	units := utf16.Encode([]rune(fmt.Sprintf("%s-%s-%s", kind, original, suggestion)))

	var hash float64
	for _, u := range units {
		shifted := toInt32(hash) << 5
		hash = float64(shifted) - hash + float64(u)
	}
	return "sug-" + strconv.FormatFloat(math.Abs(hash), 'f', -1, 64)
}

func toInt32(v float64) int32 {
	return int32(uint32(int64(v)))
}

// =============================================================================
// Wire form
// =============================================================================

// SuggestionPayload is the flat JSON shape clients send back to apply a
// suggestion. Kind selects the variant.
type SuggestionPayload struct {
	Kind        SuggestionKind `json:"kind"`
	Original    string         `json:"original,omitempty"`
	Suggestion  string         `json:"suggestion,omitempty"`
	Type        string         `json:"type,omitempty"`
	Prompt      string         `json:"prompt,omitempty"`
	Description string         `json:"description,omitempty"`
	Dimensions  *Dimensions    `json:"dimensions,omitempty"`
	Text        string         `json:"text,omitempty"`
}

// ToSuggestion converts the payload into its variant.
func (p SuggestionPayload) ToSuggestion() (Suggestion, error) {
	switch p.Kind {
	case SuggestionText:
		return TextSuggestion{Original: p.Original, Suggestion: p.Suggestion}, nil
	case SuggestionStyle:
		return StyleSuggestion{Original: p.Original, Suggestion: p.Suggestion}, nil
	case SuggestionColor:
		return ColorSuggestion{Original: p.Original, Suggestion: p.Suggestion}, nil
	case SuggestionImage, "image":
		dims := DefaultDimensions
		if p.Dimensions != nil && p.Dimensions.Width > 0 && p.Dimensions.Height > 0 {
			dims = *p.Dimensions
		}
		return ImageSuggestion{
			Type:          p.Type,
			Prompt:        p.Prompt,
			Description:   p.Description,
			Dimensions:    dims,
			IsImagePrompt: true,
		}, nil
	case SuggestionLegacyText:
		return LegacyTextSuggestion{Text: p.Text}, nil
	default:
		return nil, fmt.Errorf("unknown suggestion kind %q", p.Kind)
	}
}

// PayloadOf flattens a suggestion for JSON output.
func PayloadOf(s Suggestion) SuggestionPayload {
	switch v := s.(type) {
	case TextSuggestion:
		return SuggestionPayload{Kind: v.Kind(), Original: v.Original, Suggestion: v.Suggestion}
	case StyleSuggestion:
		return SuggestionPayload{Kind: v.Kind(), Original: v.Original, Suggestion: v.Suggestion}
	case ColorSuggestion:
		return SuggestionPayload{Kind: v.Kind(), Original: v.Original, Suggestion: v.Suggestion}
	case ImageSuggestion:
		dims := v.Dimensions
		return SuggestionPayload{Kind: v.Kind(), Type: v.Type, Prompt: v.Prompt, Description: v.Description, Dimensions: &dims}
	case LegacyTextSuggestion:
		return SuggestionPayload{Kind: v.Kind(), Text: v.Text}
	default:
		return SuggestionPayload{}
	}
}
