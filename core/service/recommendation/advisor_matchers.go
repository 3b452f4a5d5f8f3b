package recommendation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"advisor_server/core/domain"
)

var (
	hexLiteral   = regexp.MustCompile(`(?i)#([0-9a-f]{6})`)
	rgbOpen      = regexp.MustCompile(`(?i)rgb\(`)
	rgbLiteral   = regexp.MustCompile(`(?i)rgb\((\d+),\s*(\d+),\s*(\d+)\)`)
	useXColor    = regexp.MustCompile(`(?i)use\s+\w+\s+colou?r`)
	changeColor  = regexp.MustCompile(`(?i)change\s+colou?r`)
	visualAction = regexp.MustCompile(`(?i)\b(?:add|create|include|insert)\s+`)
	imperative   = regexp.MustCompile(`^(?:add|create|include|use|change)\s+`)
)

// =============================================================================
// Color
// =============================================================================

// ColorMatcher handles colour changes. The extracted colour prefers a hex
// code, then rgb(), then saffron.
type ColorMatcher struct{}

func (ColorMatcher) Name() string  { return "color" }
func (ColorMatcher) Priority() int { return 1 }

func (ColorMatcher) TryMatch(text string) (domain.ParsedRecommendation, bool) {
	lower := strings.ToLower(text)
	literal := hexLiteral.MatchString(text) || rgbOpen.MatchString(text)
	keyword := strings.Contains(lower, "color") || strings.Contains(lower, "colour")

	if literal || (keyword && (useXColor.MatchString(text) || changeColor.MatchString(text))) {
		return domain.ColorRecommendation{Color: ExtractColor(text)}, true
	}
	return nil, false
}

// ExtractColor pulls a colour out of free text, defaulting to saffron.
func ExtractColor(text string) domain.RGB {
	if m := hexLiteral.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseUint(m[1], 16, 32)
		return domain.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
	}
	if m := rgbLiteral.FindStringSubmatch(text); m != nil {
		return domain.RGB{R: byteOf(m[1]), G: byteOf(m[2]), B: byteOf(m[3])}
	}
	return domain.Saffron
}

func byteOf(s string) uint8 {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// =============================================================================
// Visual
// =============================================================================

var visualKeywords = []string{
	"circle", "rectangle", "square", "triangle", "ellipse",
	"shape", "element", "symbol", "icon", "geometric", "decorative",
}

// VisualMatcher inserts decorative shapes.
type VisualMatcher struct{}

func (VisualMatcher) Name() string  { return "visual" }
func (VisualMatcher) Priority() int { return 2 }

func (VisualMatcher) TryMatch(text string) (domain.ParsedRecommendation, bool) {
	if !visualAction.MatchString(text) || !containsAny(strings.ToLower(text), visualKeywords) {
		return nil, false
	}
	return domain.VisualRecommendation{Shape: ExtractShape(text)}, true
}

// ExtractShape picks the shape by keyword priority, defaulting to rectangle.
func ExtractShape(text string) domain.ShapeKind {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "circle"), strings.Contains(lower, "ellipse"):
		return domain.ShapeCircle
	case strings.Contains(lower, "rectangle"), strings.Contains(lower, "square"):
		return domain.ShapeRectangle
	case strings.Contains(lower, "triangle"):
		return domain.ShapeTriangle
	}
	return domain.ShapeRectangle
}

// =============================================================================
// Border
// =============================================================================

var (
	borderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:add|create|integrate|include)\s+(?:a\s+|an\s+)?(?:thin|thick|professional[-\s]?grade)?\s*(?:dark\s+)?(?:blue|red|green|black|white|gray|grey)?\s*border`),
		regexp.MustCompile(`(?i)border\s+around`),
		regexp.MustCompile(`(?i)(?:thin|thick)\s+border`),
	}

	darkBlue = domain.RGBA{Red: 0, Green: 0, Blue: 0.5, Alpha: 1}

	borderColors = []struct {
		word  *regexp.Regexp
		color domain.RGBA
	}{
		{regexp.MustCompile(`\bdark\s+blue\b`), darkBlue},
		{regexp.MustCompile(`\bblue\b`), domain.RGBA{Red: 0, Green: 0.4, Blue: 1, Alpha: 1}},
		{regexp.MustCompile(`\bblack\b`), domain.RGBA{Red: 0, Green: 0, Blue: 0, Alpha: 1}},
		{regexp.MustCompile(`\bred\b`), domain.RGBA{Red: 1, Green: 0, Blue: 0, Alpha: 1}},
		{regexp.MustCompile(`\bgreen\b`), domain.RGBA{Red: 0, Green: 0.8, Blue: 0, Alpha: 1}},
	}
)

// Border widths in points.
const (
	BorderThin         = 1
	BorderDefault      = 2
	BorderProfessional = 2
	BorderThick        = 4
)

// BorderMatcher frames the selected text.
type BorderMatcher struct{}

func (BorderMatcher) Name() string  { return "border" }
func (BorderMatcher) Priority() int { return 3 }

func (BorderMatcher) TryMatch(text string) (domain.ParsedRecommendation, bool) {
	lower := strings.ToLower(text)
	if !containsAny(lower, []string{"border", "outline", "frame"}) {
		return nil, false
	}
	for _, p := range borderPatterns {
		if p.MatchString(text) {
			return ExtractBorder(text), true
		}
	}
	return nil, false
}

// ExtractBorder reads colour and width words; a hex code overrides the
// colour word. Defaults: dark blue, 2pt.
func ExtractBorder(text string) domain.BorderRecommendation {
	lower := strings.ToLower(text)
	rec := domain.BorderRecommendation{Color: darkBlue, Width: BorderDefault}

	for _, c := range borderColors {
		if c.word.MatchString(lower) {
			rec.Color = c.color
			break
		}
	}
	if hexLiteral.MatchString(text) {
		rec.Color = ExtractColor(text).RGBA()
	}

	switch {
	case strings.Contains(lower, "thin"):
		rec.Width = BorderThin
	case strings.Contains(lower, "thick"):
		rec.Width = BorderThick
	case strings.Contains(lower, "professional"):
		rec.Width = BorderProfessional
	}
	return rec
}

// =============================================================================
// Font size
// =============================================================================

var (
	sizeWithUnit = regexp.MustCompile(`(?i)(\d+)\s*(pt|px)`)
	sizeTo       = regexp.MustCompile(`(?i)(?:font\s+size\s+to|set\s+font\s+to|font\s+to)\s+(\d+)`)
	sizeAfter    = regexp.MustCompile(`(?i)(?:font\s+size|fontsize)\s*[:\s]+(\d+)`)
)

// ptToPx is the conversion applied to sizes given in points.
const ptToPx = 1.2

// FontSizeMatcher changes text size.
type FontSizeMatcher struct{}

func (FontSizeMatcher) Name() string  { return "fontSize" }
func (FontSizeMatcher) Priority() int { return 4 }

func (FontSizeMatcher) TryMatch(text string) (domain.ParsedRecommendation, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "font") {
		return nil, false
	}
	if !containsAny(lower, []string{"size", "larger", "smaller"}) && !sizeWithUnit.MatchString(text) && !sizeTo.MatchString(text) {
		return nil, false
	}
	rec, ok := ExtractFontSize(text)
	if !ok {
		return nil, false
	}
	return rec, true
}

// ExtractFontSize returns an absolute pixel size or a relative marker.
func ExtractFontSize(text string) (domain.FontSizeRecommendation, bool) {
	if m := sizeWithUnit.FindStringSubmatch(text); m != nil {
		size, _ := strconv.Atoi(m[1])
		if strings.EqualFold(m[2], "pt") {
			size = int(math.Round(float64(size) * ptToPx))
		}
		if size > 0 {
			return domain.FontSizeRecommendation{Px: size}, true
		}
	}
	for _, re := range []*regexp.Regexp{sizeTo, sizeAfter} {
		if m := re.FindStringSubmatch(text); m != nil {
			if size, _ := strconv.Atoi(m[1]); size > 0 {
				return domain.FontSizeRecommendation{Px: size}, true
			}
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "larger"), strings.Contains(lower, "increase"):
		return domain.FontSizeRecommendation{Relative: domain.SizeLarger}, true
	case strings.Contains(lower, "smaller"), strings.Contains(lower, "decrease"):
		return domain.FontSizeRecommendation{Relative: domain.SizeSmaller}, true
	}
	return domain.FontSizeRecommendation{}, false
}

// =============================================================================
// Font family
// =============================================================================

// KnownFonts is the family allow-list, most specific names first within a
// family so substring scans prefer them.
var KnownFonts = []string{
	"raleway", "montserrat", "source sans 3", "source sans3", "source sans",
	"arial", "times new roman", "times", "helvetica", "georgia",
	"verdana", "courier new", "courier", "comic sans", "trebuchet",
	"tahoma", "lucida", "palatino", "garamond", "bookman",
}

var (
	likeFonts  = regexp.MustCompile(`(?i)\blike\s+(\w+)(?:\s+or\s+\w+)?`)
	likeXorY   = regexp.MustCompile(`(?i)like\s+\w+\s+or\s+\w+`)
	switchFont = regexp.MustCompile(`(?i)(?:switch|change|use|apply)\s+(?:the\s+)?font\s+to\s+(\w+)`)
)

// FontFamilyMatcher switches font family.
type FontFamilyMatcher struct{}

func (FontFamilyMatcher) Name() string  { return "fontFamily" }
func (FontFamilyMatcher) Priority() int { return 5 }

func (FontFamilyMatcher) TryMatch(text string) (domain.ParsedRecommendation, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "font") {
		return nil, false
	}
	if !containsAny(lower, []string{"switch", "change", "use", "apply"}) && !likeXorY.MatchString(text) {
		return nil, false
	}
	name, ok := ExtractFontFamily(text)
	if !ok {
		return nil, false
	}
	return domain.FontFamilyRecommendation{Name: name}, true
}

// ExtractFontFamily finds a family name: "like X" first, then "font to X",
// then any known family in the text. The result is lower-case.
func ExtractFontFamily(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, re := range []*regexp.Regexp{likeFonts, switchFont} {
		if m := re.FindStringSubmatch(lower); m != nil {
			return knownOr(m[1]), true
		}
	}
	for _, f := range KnownFonts {
		if strings.Contains(lower, f) {
			return f, true
		}
	}
	return "", false
}

// knownOr maps a captured word to the known family whose first word it
// contains, or returns the word itself.
func knownOr(word string) string {
	for _, f := range KnownFonts {
		first, _, _ := strings.Cut(f, " ")
		if strings.Contains(word, first) {
			return f
		}
	}
	return word
}

// =============================================================================
// Text
// =============================================================================

// Quote classes accept typographic quotes as well as ASCII ones.
var (
	textInLang     = regexp.MustCompile(`(?i)text\s+in\s+[a-z]+:`)
	addTextInLang  = regexp.MustCompile(`(?i)add\s+text\s+in\s+[a-z]+`)
	langQuoted     = regexp.MustCompile(`(?i)(?:add\s+)?text\s+in\s+\w+:\s*["'“”‘’]([^"'“”‘’]+)["'“”‘’]`)
	addTextColon   = regexp.MustCompile(`(?i)add\s+(?:this\s+)?text\s*:\s*["'“”‘’]?([^"'“”‘’]+)["'“”‘’]?`)
	addColonQuoted = regexp.MustCompile(`(?i)add\s*:\s*["'“”‘’]([^"'“”‘’]+)["'“”‘’]`)
	anyQuoted      = regexp.MustCompile(`["'“”‘’]([^"'“”‘’]+)["'“”‘’]`)
	bareHex        = regexp.MustCompile(`(?i)^#[0-9a-f]{6}$`)
	colorWords     = regexp.MustCompile(`(?i)color|colour|rgb`)
	afterColon     = regexp.MustCompile(`:\s*([^:]+)$`)
	colonRejects   = regexp.MustCompile(`(?i)^(?:#[0-9a-f]{6}|rgb\(|use|change)`)
	shapeWords     = regexp.MustCompile(`\b(?:circle|rectangle|square|shape|element)\b`)
	nativeRun      = regexp.MustCompile(`[^\x00-\x7F]+(?:\s+[^\x00-\x7F]+)*`)
	edgeQuotes     = regexp.MustCompile(`^["'“”‘’]+|["'“”‘’]+$`)
)

// TextMatcher inserts literal text. It matches "add text" / "text in LANG:"
// phrasing, and any text whose payload can be extracted.
type TextMatcher struct{}

func (TextMatcher) Name() string  { return "text" }
func (TextMatcher) Priority() int { return 6 }

func (TextMatcher) TryMatch(text string) (domain.ParsedRecommendation, bool) {
	payload := ExtractText(text)
	if payload == "" || payload == strings.TrimSpace(text) {
		return nil, false
	}
	return domain.TextRecommendation{Text: payload}, true
}

// IsTextInstruction reports whether the phrasing asks for text insertion.
func IsTextInstruction(text string) bool {
	lower := strings.ToLower(text)
	return (strings.Contains(lower, "add") && strings.Contains(lower, "text")) ||
		(strings.Contains(lower, "change") && strings.Contains(lower, "text")) ||
		textInLang.MatchString(text) || addTextInLang.MatchString(text)
}

// ExtractText returns the text payload of a recommendation, or "" when none
// can be found. Patterns in priority order: quoted text after "text in
// LANG:", "add text:", "add:", any quoted string (not in colour advice),
// text after the last colon, a native-script run.
func ExtractText(text string) string {
	for _, re := range []*regexp.Regexp{langQuoted, addTextColon, addColonQuoted} {
		if m := re.FindStringSubmatch(text); m != nil {
			if s := strings.TrimSpace(m[1]); s != "" {
				return s
			}
		}
	}

	if m := anyQuoted.FindStringSubmatch(text); m != nil {
		s := strings.TrimSpace(m[1])
		if len([]rune(s)) > 2 && !bareHex.MatchString(s) && !colorWords.MatchString(text) {
			return s
		}
	}

	if m := afterColon.FindStringSubmatch(text); m != nil {
		s := strings.TrimSpace(m[1])
		if !colonRejects.MatchString(s) && len([]rune(s)) > 2 && !shapeWords.MatchString(strings.ToLower(s)) {
			return strings.TrimSpace(edgeQuotes.ReplaceAllString(s, ""))
		}
	}

	if m := nativeRun.FindString(text); len([]rune(strings.TrimSpace(m))) > 1 {
		return strings.TrimSpace(m)
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
