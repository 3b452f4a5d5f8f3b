// Package recommendation classifies free-text recommendations into
// actionable intents.
//
// Matchers run in priority order and the first match wins:
//
//	1 Color       hex / rgb() literal, or colour keyword with a value
//	2 Visual      action verb + shape keyword
//	3 Border      border/outline/frame with an add or "border around" phrase
//	4 FontSize    font + size / larger / smaller / N pt|px
//	5 FontFamily  font + switch / change / use / apply / "like X or Y"
//	6 Text        quoted or post-colon payload, native-script run
//
// Ordering resolves ambiguity: "add a red circle" is Visual, not Text.
package recommendation

import (
	"strings"

	"advisor_server/core/domain"
	"advisor_server/pkg/apperr"
)

// =============================================================================
// Matcher Interface
// =============================================================================

// Matcher is one stage of the classification cascade.
type Matcher interface {
	// Name returns the matcher name (for logging)
	Name() string

	// Priority is the evaluation order, lowest first
	Priority() int

	// TryMatch returns the recommendation and true when the text belongs to
	// this matcher.
	TryMatch(text string) (domain.ParsedRecommendation, bool)
}

// Classifier runs matchers in priority order.
type Classifier struct {
	matchers []Matcher
}

// NewClassifier returns the standard six-stage cascade.
func NewClassifier() *Classifier {
	return &Classifier{matchers: DefaultMatchers()}
}

// NewClassifierWith uses a custom matcher list, evaluated in slice order.
func NewClassifierWith(matchers ...Matcher) *Classifier {
	return &Classifier{matchers: matchers}
}

// DefaultMatchers returns the cascade in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		ColorMatcher{},
		VisualMatcher{},
		BorderMatcher{},
		FontSizeMatcher{},
		FontFamilyMatcher{},
		TextMatcher{},
	}
}

// Matchers exposes the configured cascade.
func (c *Classifier) Matchers() []Matcher {
	return c.matchers
}

// Classify returns exactly one recommendation variant or a
// CLASSIFICATION_FAILURE error. An imperative instruction whose payload
// could not be extracted is a failure, never literal text.
func (c *Classifier) Classify(text string) (domain.ParsedRecommendation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.ClassificationFailure("recommendation is empty")
	}

	for _, m := range c.matchers {
		if rec, ok := m.TryMatch(text); ok {
			return rec, nil
		}
	}

	if imperative.MatchString(strings.ToLower(strings.TrimSpace(text))) {
		msg := "could not extract content from recommendation"
		if IsTextInstruction(text) {
			msg = "could not find the text to add in recommendation"
		}
		return nil, apperr.ClassificationFailure(msg).WithDetail("recommendation", text)
	}
	return domain.TextRecommendation{Text: strings.TrimSpace(text)}, nil
}

// Classify uses the standard cascade.
func Classify(text string) (domain.ParsedRecommendation, error) {
	return defaultClassifier.Classify(text)
}

var defaultClassifier = NewClassifier()
