// Package scoring computes the deterministic regional appropriateness score.
//
// Five factors, each independently capped, summed and clamped to [0,100]:
//
//	Language           30  script of the element texts vs target language
//	Cultural keywords  25  region keywords found in the text
//	Color palette      20  share of colours near the region palette
//	Typography         15  regional script font (+10), readable font (+5)
//	Content relevance  10  regional keyword (10), generic Indian term (7)
package scoring

import (
	"strings"

	"advisor_server/core/domain"
	"advisor_server/core/service/colormath"
	"advisor_server/core/service/knowledge"
	"advisor_server/core/service/textclass"
)

// =============================================================================
// Factor Interface
// =============================================================================

// Input is everything a factor may look at. Derived sequences are computed
// once per Compute call.
type Input struct {
	Element       domain.ElementDescriptor
	Region        domain.RegionProfile
	Language      string
	RegionalFonts []string

	texts   []string
	fonts   []string
	colors  []string
	allText string
}

func newInput(el domain.ElementDescriptor, region domain.RegionProfile, language string, fonts []string) *Input {
	texts := el.Texts()
	return &Input{
		Element:       el,
		Region:        region,
		Language:      language,
		RegionalFonts: fonts,
		texts:         texts,
		fonts:         el.Fonts(),
		colors:        el.Colors(),
		allText:       strings.ToLower(strings.Join(texts, " ")),
	}
}

// Factor is one weighted component of the score.
type Factor interface {
	Name() string
	Max() int
	Score(in *Input) int
}

// Factor names as reported in a breakdown.
const (
	FactorLanguage   = "language"
	FactorCultural   = "cultural"
	FactorColors     = "colors"
	FactorTypography = "typography"
	FactorContent    = "content"
)

// =============================================================================
// Engine
// =============================================================================

// Engine evaluates the factor list against a region from the knowledge base.
type Engine struct {
	kb      *knowledge.KnowledgeBase
	factors []Factor
}

// NewEngine builds the standard five-factor engine. threshold is the RGB
// distance below which two colours are considered similar.
func NewEngine(kb *knowledge.KnowledgeBase, threshold float64) *Engine {
	return &Engine{
		kb:      kb,
		factors: DefaultFactors(colormath.NewMatcher(threshold)),
	}
}

// DefaultFactors returns the five factors in evaluation order.
func DefaultFactors(matcher colormath.Matcher) []Factor {
	return []Factor{
		languageFactor{},
		culturalFactor{},
		colorFactor{matcher: matcher},
		typographyFactor{},
		contentFactor{},
	}
}

// Compute scores element for regionName/language. An unknown region scores
// with an empty profile, which yields the neutral values for palette and
// keyword factors.
func (e *Engine) Compute(el domain.ElementDescriptor, regionName, language string) domain.ScoreBreakdown {
	region, ok := e.kb.Region(regionName)
	if !ok {
		region = domain.RegionProfile{Name: regionName}
	}
	return e.ComputeProfile(el, region, language)
}

// ComputeProfile scores against an explicit profile.
func (e *Engine) ComputeProfile(el domain.ElementDescriptor, region domain.RegionProfile, language string) domain.ScoreBreakdown {
	fonts := e.kb.RegionalFonts(language, region)
	in := newInput(el, region, e.kb.CanonicalLanguage(language), fonts)

	out := domain.ScoreBreakdown{Factors: make([]domain.FactorScore, 0, len(e.factors))}
	sum := 0
	for _, f := range e.factors {
		pts := f.Score(in)
		if pts > f.Max() {
			pts = f.Max()
		}
		sum += pts
		out.Factors = append(out.Factors, domain.FactorScore{Name: f.Name(), Points: pts, Max: f.Max()})
	}
	out.Total = Clamp(sum)
	return out
}

// ComputeScore returns only the clamped total.
func (e *Engine) ComputeScore(el domain.ElementDescriptor, regionName, language string) int {
	return e.Compute(el, regionName, language).Total
}

// Clamp bounds a raw sum to [0, MaxScore].
func Clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > domain.MaxScore:
		return domain.MaxScore
	}
	return v
}

// =============================================================================
// Factors
// =============================================================================

type languageFactor struct{}

func (languageFactor) Name() string { return FactorLanguage }
func (languageFactor) Max() int     { return 30 }

func (languageFactor) Score(in *Input) int {
	if len(in.texts) == 0 {
		return 15
	}
	regional, english := 0, 0
	for _, t := range in.texts {
		switch {
		case textclass.ScriptMatches(t, in.Language):
			regional++
		case textclass.IsEnglish(t):
			english++
		}
	}
	ratio := float64(regional) / float64(len(in.texts))
	switch {
	case ratio > 0.8:
		return 30
	case ratio > 0.5:
		return 25
	case ratio > 0.2:
		return 20
	case english == len(in.texts):
		return 10
	}
	return 5
}

type culturalFactor struct{}

func (culturalFactor) Name() string { return FactorCultural }
func (culturalFactor) Max() int     { return 25 }

func (culturalFactor) Score(in *Input) int {
	matches := 0
	for _, kw := range in.Region.AllKeywords() {
		if strings.Contains(in.allText, strings.ToLower(kw)) {
			matches++
		}
	}
	switch {
	case matches >= 4:
		return 25
	case matches >= 3:
		return 20
	case matches >= 2:
		return 15
	case matches >= 1:
		return 10
	}
	return 5
}

type colorFactor struct {
	matcher colormath.Matcher
}

func (colorFactor) Name() string { return FactorColors }
func (colorFactor) Max() int     { return 20 }

func (f colorFactor) Score(in *Input) int {
	if len(in.colors) == 0 {
		return 10
	}
	matches := 0
	for _, c := range in.colors {
		if f.matcher.InPalette(c, in.Region.Colors) {
			matches++
		}
	}
	ratio := float64(matches) / float64(len(in.colors))
	switch {
	case ratio > 0.7:
		return 20
	case ratio > 0.5:
		return 16
	case ratio > 0.3:
		return 12
	case ratio > 0.1:
		return 8
	}
	return 5
}

// ReadableFonts is the fixed allow-list rewarded by the typography factor.
var ReadableFonts = []string{"Arial", "Helvetica", "Roboto", "Open Sans", "Lato", "Montserrat", "Poppins"}

type typographyFactor struct{}

func (typographyFactor) Name() string { return FactorTypography }
func (typographyFactor) Max() int     { return 15 }

func (typographyFactor) Score(in *Input) int {
	if len(in.fonts) == 0 {
		return 8
	}
	score := 0
	if anyContains(in.fonts, in.RegionalFonts) {
		score += 10
	}
	if anyContains(in.fonts, ReadableFonts) {
		score += 5
	}
	return score
}

// anyContains is a case-sensitive substring test of each font against each
// family name.
func anyContains(fonts, families []string) bool {
	for _, font := range fonts {
		for _, fam := range families {
			if strings.Contains(font, fam) {
				return true
			}
		}
	}
	return false
}

// indianContext terms earn partial content credit.
var indianContext = []string{"india", "diwali", "festival", "celebration"}

type contentFactor struct{}

func (contentFactor) Name() string { return FactorContent }
func (contentFactor) Max() int     { return 10 }

func (contentFactor) Score(in *Input) int {
	for _, kw := range in.Region.AllKeywords() {
		if strings.Contains(in.allText, strings.ToLower(kw)) {
			return 10
		}
	}
	for _, kw := range indianContext {
		if strings.Contains(in.allText, kw) {
			return 7
		}
	}
	return 3
}
