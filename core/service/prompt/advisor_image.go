package prompt

import (
	"strings"
	"unicode/utf8"

	"advisor_server/core/domain"
)

// Image element types.
const (
	ImageIcon         = "icon"
	ImagePattern      = "pattern"
	ImageDecoration   = "decoration"
	ImageBackground   = "background"
	ImageIllustration = "illustration"
)

// MaxImagePromptLength caps prompts sent to the image model.
const MaxImagePromptLength = 2000

var imageTemplates = map[string]string{
	ImageIcon:         "A {description} icon in {style}, {colors}, minimalist design, flat style, no text, transparent background, cultural symbol",
	ImagePattern:      "{description} pattern in {style}, {patterns}, {colors}, seamless tileable design, intricate details, no text, decorative background",
	ImageDecoration:   "{description} decorative element in {style}, {symbols}, {colors}, ornamental design, no text, artistic embellishment",
	ImageBackground:   "{description} background in {style}, {patterns}, {colors}, subtle design, no text, full coverage pattern",
	ImageIllustration: "{description} illustration in {style}, {symbols}, {colors}, artistic rendering, no text, cultural artwork",
}

var imageDimensions = map[string]domain.Dimensions{
	ImageIcon:         {Width: 256, Height: 256},
	ImagePattern:      {Width: 512, Height: 512},
	ImageDecoration:   {Width: 384, Height: 384},
	ImageBackground:   {Width: 1024, Height: 1024},
	ImageIllustration: {Width: 512, Height: 512},
}

// IsImageType reports whether t has its own template.
func IsImageType(t string) bool {
	_, ok := imageTemplates[t]
	return ok
}

// Image fills the template for elementType with the regional style.
// Unknown types use the decoration template.
func Image(elementType, description string, style domain.ImageStyle) string {
	tmpl, ok := imageTemplates[strings.ToLower(elementType)]
	if !ok {
		tmpl = imageTemplates[ImageDecoration]
	}
	r := strings.NewReplacer(
		"{description}", description,
		"{style}", style.Style,
		"{colors}", style.Colors,
		"{patterns}", style.Patterns,
		"{symbols}", style.Symbols,
	)
	return capPrompt(r.Replace(tmpl))
}

func capPrompt(p string) string {
	if utf8.RuneCountInString(p) <= MaxImagePromptLength {
		return p
	}
	return string([]rune(p)[:MaxImagePromptLength-3]) + "..."
}

// DimensionsFor returns the default size for an element type.
func DimensionsFor(elementType string) domain.Dimensions {
	if d, ok := imageDimensions[strings.ToLower(elementType)]; ok {
		return d
	}
	return imageDimensions[ImageDecoration]
}

// Aspect ratios accepted by the image model.
const (
	AspectSquare    = "1:1"
	AspectLandscape = "16:9"
	AspectPortrait  = "9:16"
	AspectWide      = "4:3"
)

// AspectRatio picks the closest supported ratio.
func AspectRatio(d domain.Dimensions) string {
	if d.Width <= 0 || d.Height <= 0 {
		return AspectSquare
	}
	r := float64(d.Width) / float64(d.Height)
	switch {
	case r > 1.5:
		return AspectLandscape
	case r < 0.7:
		return AspectPortrait
	case r > 1.2:
		return AspectWide
	}
	return AspectSquare
}
