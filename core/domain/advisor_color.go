package domain

import (
	"fmt"
	"math"
)

// RGB is an 8-bit per channel colour as it appears in hex codes.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA uses 0..1 float channels, the editor's convention.
type RGBA struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
	Alpha float64 `json:"alpha"`
}

// Saffron is the fallback colour for colour recommendations.
var Saffron = RGB{R: 255, G: 153, B: 51}

// Hex renders the colour as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA converts to editor channels with full opacity.
func (c RGB) RGBA() RGBA {
	return RGBA{
		Red:   float64(c.R) / 255,
		Green: float64(c.G) / 255,
		Blue:  float64(c.B) / 255,
		Alpha: 1,
	}
}

// RGB rounds editor channels to 8-bit values. Alpha is dropped.
func (c RGBA) RGB() RGB {
	return RGB{R: channel(c.Red), G: channel(c.Green), B: channel(c.Blue)}
}

// Hex renders the colour as #RRGGBB.
func (c RGBA) Hex() string {
	return c.RGB().Hex()
}

func channel(v float64) uint8 {
	v = math.Round(v * 255)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// Well-known editor colours used by the apply flow.
var (
	Transparent     = RGBA{Red: 1, Green: 1, Blue: 1, Alpha: 0}
	VisualFill      = RGBA{Red: 0.2, Green: 0.4, Blue: 0.8, Alpha: 1}
	PlaceholderFill = RGBA{Red: 0.9, Green: 0.9, Blue: 0.9, Alpha: 1}
)
