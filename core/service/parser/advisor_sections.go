// Package parser extracts structured suggestions from the delimited text the
// AI text service returns. AI output is unreliable, so nothing here fails:
// malformed or missing sections yield empty results.
package parser

import (
	"regexp"
	"strings"

	"advisor_server/core/domain"

	"github.com/goccy/go-json"
)

// Section names. Each is bounded by NAME_START / NAME_END.
const (
	SectionText     = "TEXT_SUGGESTIONS"
	SectionStyle    = "STYLE_SUGGESTIONS"
	SectionElements = "ELEMENTS_SUGGESTIONS"
	SectionColor    = "COLOR_SUGGESTIONS"
)

var allSections = []string{SectionText, SectionStyle, SectionElements, SectionColor}

// StartMarker returns the opening marker for a section.
func StartMarker(section string) string { return section + "_START" }

// EndMarker returns the closing marker for a section.
func EndMarker(section string) string { return section + "_END" }

const (
	originalPrefix   = "Original:"
	suggestionPrefix = "AI Suggestion:"
)

// Pair is one original/suggestion entry of a paired section.
type Pair struct {
	Original   string
	Suggestion string
}

// countHeader matches lines such as "3 text elements found".
var countHeader = regexp.MustCompile(`^\d+\s+(?:text elements found|style suggestions|color suggestions)`)

// Bounded returns the trimmed text between start and end, or false when
// either marker is missing.
func Bounded(blob, start, end string) (string, bool) {
	i := strings.Index(blob, start)
	if i < 0 {
		return "", false
	}
	body := blob[i+len(start):]
	j := strings.Index(body, end)
	if j < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:j]), true
}

// ParsePairedSection scans a bounded section line by line. "Original:" starts
// a pair, "AI Suggestion:" switches to the suggestion field, and other lines
// are appended to the active field. Pairs missing either field are dropped.
func ParsePairedSection(blob, start, end string) []Pair {
	body, ok := Bounded(blob, start, end)
	if !ok {
		return nil
	}

	var (
		pairs      []Pair
		original   *strings.Builder
		suggestion *strings.Builder
	)

	flush := func() {
		if original == nil || suggestion == nil {
			return
		}
		o, s := original.String(), suggestion.String()
		if o != "" && s != "" {
			pairs = append(pairs, Pair{Original: o, Suggestion: s})
		}
	}
	appendLine := func(b *strings.Builder, line string) {
		if line == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, originalPrefix):
			flush()
			original, suggestion = &strings.Builder{}, nil
			appendLine(original, strings.TrimSpace(strings.TrimPrefix(line, originalPrefix)))
		case strings.HasPrefix(line, suggestionPrefix):
			if original == nil {
				continue
			}
			suggestion = &strings.Builder{}
			appendLine(suggestion, strings.TrimSpace(strings.TrimPrefix(line, suggestionPrefix)))
		case line == "" || countHeader.MatchString(line):
		case suggestion != nil:
			appendLine(suggestion, line)
		case original != nil:
			appendLine(original, line)
		}
	}
	flush()

	return pairs
}

// leakage markers show the AI echoed the prompt template instead of content.
var leakageMarkers = []string{
	"Elements Suggestions**:",
	"Color Suggestions**:",
	SectionElements,
	SectionColor,
	SectionStyle,
	SectionText,
	"Provide EXECUTABLE IMAGE",
	"EXACT JSON format",
}

func isLeakage(p Pair) bool {
	for _, m := range leakageMarkers {
		if strings.Contains(p.Original, m) {
			return true
		}
	}
	return strings.Contains(p.Suggestion, "Remove - Placeholder")
}

// ParseTextSuggestions parses the text section, dropping template leakage.
func ParseTextSuggestions(blob string) []domain.TextSuggestion {
	var out []domain.TextSuggestion
	for _, p := range ParsePairedSection(blob, StartMarker(SectionText), EndMarker(SectionText)) {
		if isLeakage(p) {
			continue
		}
		out = append(out, domain.TextSuggestion{Original: p.Original, Suggestion: p.Suggestion})
	}
	return out
}

// ParseStyleSuggestions parses the style section.
func ParseStyleSuggestions(blob string) []domain.StyleSuggestion {
	var out []domain.StyleSuggestion
	for _, p := range ParsePairedSection(blob, StartMarker(SectionStyle), EndMarker(SectionStyle)) {
		out = append(out, domain.StyleSuggestion{Original: p.Original, Suggestion: p.Suggestion})
	}
	return out
}

// ParseColorSuggestions parses the colour section.
func ParseColorSuggestions(blob string) []domain.ColorSuggestion {
	var out []domain.ColorSuggestion
	for _, p := range ParsePairedSection(blob, StartMarker(SectionColor), EndMarker(SectionColor)) {
		out = append(out, domain.ColorSuggestion{Original: p.Original, Suggestion: p.Suggestion})
	}
	return out
}

// =============================================================================
// Elements (JSON)
// =============================================================================

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

type elementItem struct {
	Type        string             `json:"type"`
	Prompt      string             `json:"prompt"`
	Description string             `json:"description"`
	Dimensions  *domain.Dimensions `json:"dimensions"`
}

// ParseElementsSection decodes the elements section as a JSON array, falling
// back to the first fenced code block inside it.
func ParseElementsSection(blob string) []domain.ImageSuggestion {
	body, ok := Bounded(blob, StartMarker(SectionElements), EndMarker(SectionElements))
	if !ok {
		return nil
	}

	items, ok := decodeArray(body)
	if !ok {
		m := jsonBlockRegex.FindStringSubmatch(body)
		if len(m) < 2 {
			return nil
		}
		if items, ok = decodeArray(strings.TrimSpace(m[1])); !ok {
			return nil
		}
	}

	var out []domain.ImageSuggestion
	for _, raw := range items {
		var it elementItem
		if err := json.Unmarshal(raw, &it); err != nil {
			continue
		}
		if it.Type == "" || it.Prompt == "" || it.Description == "" {
			continue
		}
		dims := domain.DefaultDimensions
		if it.Dimensions != nil && it.Dimensions.Width > 0 && it.Dimensions.Height > 0 {
			dims = *it.Dimensions
		}
		out = append(out, domain.ImageSuggestion{
			Type:          it.Type,
			Prompt:        it.Prompt,
			Description:   it.Description,
			Dimensions:    dims,
			IsImagePrompt: true,
		})
	}
	return out
}

func decodeArray(s string) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}
	return items, true
}
