package parser

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"advisor_server/core/domain"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// DefaultScore is used when no score line is found.
	DefaultScore = domain.DefaultBaseScore

	scoreScanLines     = 5
	maxAnalysisRunes   = 200
	maxAnalysisWords   = 40
	maxRecommendations = 5
	maxRecommendRunes  = 200
	minBulletRunes     = 10
)

var (
	scoreToken     = regexp.MustCompile(`\b(\d{1,3})\b`)
	scoreOnlyLine  = regexp.MustCompile(`(?i)^(?:score\s*[:\-]?\s*)?\d{1,3}(?:\s*/\s*100)?$`)
	leadingNumber  = regexp.MustCompile(`^\d+\s*`)
	bulletPrefix   = regexp.MustCompile(`^[-•*]\s+`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s+`)
	listMarker     = regexp.MustCompile(`^[-•*\d.\s]+`)
	bulletLine     = regexp.MustCompile(`[-•*]\s+(.+)`)

	strictPolicy = bluemonday.StrictPolicy()
)

// ParseAnalysisResponse extracts everything from one analysis reply.
func ParseAnalysisResponse(blob string) domain.AnalysisResponse {
	return domain.AnalysisResponse{
		Score:           ParseScore(blob),
		Analysis:        ParseAnalysis(blob),
		Text:            ParseTextSuggestions(blob),
		Style:           ParseStyleSuggestions(blob),
		Elements:        ParseElementsSection(blob),
		Color:           ParseColorSuggestions(blob),
		Recommendations: ExtractRecommendations(Preamble(blob)),
	}
}

// ParseScore returns the first integer in [0,100] found in the first five
// lines, or DefaultScore. Only the first number on each line is considered.
func ParseScore(blob string) int {
	if s, ok := findScore(blob); ok {
		return s
	}
	return DefaultScore
}

func findScore(blob string) (int, bool) {
	lines := strings.SplitN(blob, "\n", scoreScanLines+1)
	if len(lines) > scoreScanLines {
		lines = lines[:scoreScanLines]
	}
	for _, line := range lines {
		m := scoreToken.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil && v >= 0 && v <= domain.MaxScore {
			return v, true
		}
	}
	return 0, false
}

// firstSectionIndex is the offset of the earliest section start marker.
func firstSectionIndex(blob string) int {
	first := -1
	for _, s := range allSections {
		if i := strings.Index(blob, StartMarker(s)); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	return first
}

// Preamble is the free text before the first section marker, or the whole
// blob when there are no markers.
func Preamble(blob string) string {
	if i := firstSectionIndex(blob); i >= 0 {
		return blob[:i]
	}
	return blob
}

// ParseAnalysis returns the analysis paragraph: the non-empty, non-score
// lines before the first section, sanitised and capped at 200 characters
// and 40 words. Without section markers the first line after the score is
// used.
func ParseAnalysis(blob string) string {
	var text string
	if i := firstSectionIndex(blob); i >= 0 {
		var kept []string
		for _, line := range strings.Split(blob[:i], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || scoreOnlyLine.MatchString(line) {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, " ")
	} else if loc := scoreToken.FindStringIndex(blob); loc != nil {
		rest := leadingNumber.ReplaceAllString(blob[loc[0]:], "")
		for _, line := range strings.Split(rest, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				text = line
				break
			}
		}
	}

	text = Sanitize(text)
	text = TruncateRunes(text, maxAnalysisRunes)
	return LimitWords(text, maxAnalysisWords)
}

// Sanitize strips any markup from AI text and undoes entity escaping.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}

// LimitWords keeps the first n words, appending "..." when words are dropped.
func LimitWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

// ExtractRecommendations pulls actionable lines out of analysis text. Lines
// after a "recommendation" or "suggest" header are taken, as are bullet and
// numbered lines anywhere. When that yields nothing, markdown bullets of a
// reasonable length are used. At most five are returned.
func ExtractRecommendations(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.Contains(lower, "recommendation") || strings.Contains(lower, "suggest") {
			inSection = true
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if inSection || bulletPrefix.MatchString(trimmed) || numberedPrefix.MatchString(trimmed) {
			item := strings.TrimSpace(listMarker.ReplaceAllString(trimmed, ""))
			if n := utf8.RuneCountInString(item); n > 0 && n < maxRecommendRunes {
				out = append(out, item)
			}
		}
	}

	if len(out) == 0 {
		for _, m := range bulletLine.FindAllStringSubmatch(text, -1) {
			item := strings.TrimSpace(m[1])
			if n := utf8.RuneCountInString(item); n > minBulletRunes && n < maxRecommendRunes {
				out = append(out, item)
			}
		}
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
