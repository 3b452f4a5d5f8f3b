package parser

import (
	"regexp"
	"strconv"
	"strings"

	"advisor_server/core/domain"
)

// =============================================================================
// Style strings ("Noto Sans Tamil, 28pt")
// =============================================================================

// StyleSpec is a parsed style suggestion. SizePt is 0 when absent.
type StyleSpec struct {
	FontName string
	SizePt   float64
}

// HasSize reports whether a point size was present.
func (s StyleSpec) HasSize() bool { return s.SizePt > 0 }

var (
	trailingComment = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	ptSize          = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*pt`)
	trailingDashes  = regexp.MustCompile(`[\s-]+$`)
)

// ParseStyle splits a "Font-Style, NNpt (comment)" string.
func ParseStyle(s string) StyleSpec {
	cleaned := strings.TrimSpace(trailingComment.ReplaceAllString(s, ""))

	var spec StyleSpec
	loc := ptSize.FindStringSubmatchIndex(cleaned)
	if loc != nil {
		spec.SizePt, _ = strconv.ParseFloat(cleaned[loc[2]:loc[3]], 64)
	}

	name := cleaned
	if i := strings.Index(cleaned, ","); i >= 0 {
		name = cleaned[:i]
	} else if loc != nil {
		name = cleaned[:loc[0]]
	}
	spec.FontName = strings.TrimSpace(trailingDashes.ReplaceAllString(strings.TrimSpace(name), ""))
	return spec
}

// =============================================================================
// Single-value responses
// =============================================================================

const DefaultFontSize = 24

var (
	firstInt      = regexp.MustCompile(`\d+`)
	colorTriplet  = regexp.MustCompile(`#([0-9A-Fa-f]{6})\|RGB\((\d+),(\d+),(\d+)\)\|([\d.]+)`)
	hexCode       = regexp.MustCompile(`#([0-9A-Fa-f]{6})`)
	positionPair  = regexp.MustCompile(`x:(\d+)\|y:(\d+)`)
	defaultColor  = ColorChoice{Hex: domain.Saffron.Hex(), Color: domain.Saffron.RGBA()}
	defaultOrigin = domain.Point{X: 50, Y: 50}
)

// ParseFontSizeResponse returns the first integer in the reply, default 24.
func ParseFontSizeResponse(text string) int {
	if m := firstInt.FindString(text); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			return v
		}
	}
	return DefaultFontSize
}

// ColorChoice is a colour suggested by the AI.
type ColorChoice struct {
	Hex   string      `json:"hex"`
	Color domain.RGBA `json:"rgb"`
}

// ParseColorResponse reads "#HEX|RGB(r,g,b)|ALPHA", else the first hex code,
// else saffron.
func ParseColorResponse(text string) ColorChoice {
	if m := colorTriplet.FindStringSubmatch(text); m != nil {
		r, _ := strconv.Atoi(m[2])
		g, _ := strconv.Atoi(m[3])
		b, _ := strconv.Atoi(m[4])
		alpha, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			alpha = 1
		}
		return ColorChoice{
			Hex:   "#" + m[1],
			Color: domain.RGBA{Red: float64(r) / 255, Green: float64(g) / 255, Blue: float64(b) / 255, Alpha: alpha},
		}
	}
	if m := hexCode.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseUint(m[1], 16, 32)
		c := domain.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
		return ColorChoice{Hex: "#" + m[1], Color: c.RGBA()}
	}
	return defaultColor
}

// ParsePositionResponse reads "x:N|y:N", else the first two integers,
// else (50,50).
func ParsePositionResponse(text string) domain.Point {
	if m := positionPair.FindStringSubmatch(text); m != nil {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		return domain.Point{X: float64(x), Y: float64(y)}
	}
	if nums := firstInt.FindAllString(text, 2); len(nums) == 2 {
		x, _ := strconv.Atoi(nums[0])
		y, _ := strconv.Atoi(nums[1])
		return domain.Point{X: float64(x), Y: float64(y)}
	}
	return defaultOrigin
}
