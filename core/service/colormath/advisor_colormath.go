// Package colormath converts and compares colours for palette matching.
package colormath

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"advisor_server/core/domain"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultThreshold is the Euclidean RGB distance under which two colours
// count as similar.
const DefaultThreshold = 40.0

// MaxDistance is the distance between black and white.
const MaxDistance = 441.6729559300637

var (
	strictHex = regexp.MustCompile(`^#?([0-9A-Fa-f]{6})$`)
	looseHex  = regexp.MustCompile(`#([0-9A-Fa-f]{6})\b`)
)

// HexToRGB parses exactly six hex digits with an optional leading '#'.
func HexToRGB(hex string) (domain.RGB, bool) {
	m := strictHex.FindStringSubmatch(strings.TrimSpace(hex))
	if m == nil {
		return domain.RGB{}, false
	}
	c, err := colorful.Hex("#" + strings.ToLower(m[1]))
	if err != nil {
		return domain.RGB{}, false
	}
	r, g, b := c.RGB255()
	return domain.RGB{R: r, G: g, B: b}, true
}

// ParseHexLoose returns the first #RRGGBB found anywhere in text.
func ParseHexLoose(text string) (domain.RGB, bool) {
	m := looseHex.FindStringSubmatch(text)
	if m == nil {
		return domain.RGB{}, false
	}
	return HexToRGB(m[1])
}

func toColorful(c domain.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// RGBDistance is the Euclidean distance in 0..255 space, within [0, 441.67].
// Computed on integer channels so threshold comparisons are exact.
func RGBDistance(a, b domain.RGB) float64 {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return math.Sqrt(float64(dr*dr + dg*dg + db*db))
}

// PerceptualDistance is the CIE L*a*b* distance. Diagnostics only; palette
// matching uses RGBDistance.
func PerceptualDistance(a, b domain.RGB) float64 {
	return toColorful(a).DistanceLab(toColorful(b))
}

// Matcher compares colours against a configurable threshold.
type Matcher struct {
	Threshold float64
}

// NewMatcher returns a matcher; non-positive thresholds use the default.
func NewMatcher(threshold float64) Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Matcher{Threshold: threshold}
}

// Similar reports whether two hex colours are closer than the threshold.
// Malformed input is never similar.
func (m Matcher) Similar(a, b string) bool {
	ca, ok := HexToRGB(a)
	if !ok {
		return false
	}
	cb, ok := HexToRGB(b)
	if !ok {
		return false
	}
	return RGBDistance(ca, cb) < m.Threshold
}

// InPalette reports whether color is similar to any palette entry.
func (m Matcher) InPalette(color string, palette []string) bool {
	for _, p := range palette {
		if m.Similar(color, p) {
			return true
		}
	}
	return false
}

// ColorsSimilar uses an explicit threshold.
func ColorsSimilar(a, b string, threshold float64) bool {
	return NewMatcher(threshold).Similar(a, b)
}

// IsColorInPalette uses DefaultThreshold.
func IsColorInPalette(color string, palette []string) bool {
	return NewMatcher(DefaultThreshold).InPalette(color, palette)
}

// PaletteMatch is one palette entry ranked by perceptual distance.
type PaletteMatch struct {
	Hex      string  `json:"hex"`
	Distance float64 `json:"distance"`
}

// RankPalette orders palette entries by perceptual closeness to color.
// Malformed entries are skipped.
func RankPalette(color string, palette []string) []PaletteMatch {
	c, ok := HexToRGB(color)
	if !ok {
		return nil
	}
	out := make([]PaletteMatch, 0, len(palette))
	for _, p := range palette {
		pc, ok := HexToRGB(p)
		if !ok {
			continue
		}
		out = append(out, PaletteMatch{Hex: pc.Hex(), Distance: PerceptualDistance(c, pc)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
