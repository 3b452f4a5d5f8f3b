// Package prompt builds the prompts sent to the AI text and image services.
// Prompts for analysis ask for the delimited section format the parser
// package reads back.
package prompt

import (
	"fmt"
	"strings"

	"advisor_server/core/domain"
	"advisor_server/core/service/parser"

	"github.com/goccy/go-json"
)

// AnalystPersona is the system instruction for every text generation call.
const AnalystPersona = `Role: You are "The Analyst", an authority on Indian regional semiotics, design aesthetics and cultural nuance.

Directive: analyse the supplied design against the named Indian region and give precise, actionable feedback.

Rules:
1. Each piece of advice is a single sentence.
2. No greetings, apologies or filler. State facts and directives only.
3. Be specific and show regional knowledge, e.g. "Use turmeric yellow for festivity" rather than "Use a different color".
4. Never repeat a piece of advice.
5. When a response format is requested, follow it exactly.`

// StyleLine describes one text run's typography.
type StyleLine struct {
	Text   string
	Font   string
	SizePt float64
	Color  string
}

// Original renders the line as it appears in the style section.
func (s StyleLine) Original() string {
	if s.SizePt > 0 {
		return fmt.Sprintf("%s, %gpt", s.Font, s.SizePt)
	}
	return s.Font
}

// ColorLine is one colour in use.
type ColorLine struct {
	Type string
	Hex  string
}

// AnalysisInput is what the analysis prompt describes.
type AnalysisInput struct {
	Region   string
	Language string
	Element  domain.ElementDescriptor
	Texts    []string
	Styles   []StyleLine
	Colors   []ColorLine
}

// InputFromElement derives texts, styles and colours from a descriptor.
func InputFromElement(region, language string, el domain.ElementDescriptor) AnalysisInput {
	in := AnalysisInput{Region: region, Language: language, Element: el, Texts: el.Texts()}

	if el.FontName != nil && *el.FontName != "" {
		line := StyleLine{Text: el.Text(), Font: *el.FontName}
		if el.FontSizePt != nil {
			line.SizePt = *el.FontSizePt
		}
		if el.FillColor != nil {
			line.Color = el.FillColor.Hex()
		}
		in.Styles = append(in.Styles, line)
	}
	for _, f := range el.SiblingFonts {
		if f != "" {
			in.Styles = append(in.Styles, StyleLine{Font: f})
		}
	}

	if el.FillColor != nil {
		in.Colors = append(in.Colors, ColorLine{Type: "fill", Hex: el.FillColor.Hex()})
	}
	if el.StrokeColor != nil {
		in.Colors = append(in.Colors, ColorLine{Type: "stroke", Hex: el.StrokeColor.Hex()})
	}
	for _, c := range el.SiblingColors {
		in.Colors = append(in.Colors, ColorLine{Type: "sibling", Hex: c.Hex()})
	}
	return in
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func jsonOr(v any, def string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return def
	}
	return string(b)
}

func elementInfo(el domain.ElementDescriptor) string {
	var sb strings.Builder
	sb.WriteString("Element Type: " + orDefault(string(el.Kind), "Unknown") + "\n")
	sb.WriteString("Text Content: " + orDefault(el.Text(), "No text") + "\n")

	color := "No color data"
	if el.FillColor != nil {
		color = jsonOr(el.FillColor, color)
	}
	sb.WriteString("Color: " + color + "\n")
	sb.WriteString("Position: " + jsonOr(el.Bounds, "No position data") + "\n")

	font := "No font data"
	if el.FontName != nil {
		font = orDefault(*el.FontName, font)
	}
	sb.WriteString("Font: " + font + "\n")

	size := "No font size data"
	if el.FontSizePt != nil {
		size = fmt.Sprintf("%g", *el.FontSizePt)
	}
	sb.WriteString("Font Size: " + size + "\n")
	return sb.String()
}

func pairedTemplate(section, header string, originals []string) string {
	var sb strings.Builder
	sb.WriteString(parser.StartMarker(section) + "\n")
	sb.WriteString(header + "\n")
	for i, o := range originals {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Original:\n" + o + "\nAI Suggestion:\n[Your suggestion here]\n")
	}
	sb.WriteString(parser.EndMarker(section) + "\n")
	return sb.String()
}

// Analysis builds the full regional analysis prompt.
func Analysis(in AnalysisInput) string {
	var sb strings.Builder
	region, lang := in.Region, in.Language

	fmt.Fprintf(&sb, "You are an expert in Indian regional cultural analysis. Analyze the following design for regional appropriateness for %s, India, targeting %s language speakers.\n\n", region, lang)
	sb.WriteString("Element Information:\n" + elementInfo(in.Element) + "\n")

	if len(in.Texts) > 0 {
		fmt.Fprintf(&sb, "Text Elements Found (%d):\n", len(in.Texts))
		for i, t := range in.Texts {
			fmt.Fprintf(&sb, "%d. %q\n", i+1, t)
		}
	} else {
		sb.WriteString("No text elements found.\n")
	}

	if len(in.Styles) > 0 {
		sb.WriteString("\nCurrent Fonts/Styles:\n")
		for i, s := range in.Styles {
			fmt.Fprintf(&sb, "%d. Text: %q\n   Font: %s, Size: %gpt, Color: %s\n", i+1, s.Text, s.Font, s.SizePt, orDefault(s.Color, "unknown"))
		}
	} else {
		sb.WriteString("\nNo font/style information available.\n")
	}

	if len(in.Colors) > 0 {
		sb.WriteString("\nCurrent Colors:\n")
		for i, c := range in.Colors {
			fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, c.Type, c.Hex)
		}
	} else {
		sb.WriteString("\nNo color information available.\n")
	}

	sb.WriteString("\nProvide your analysis in this EXACT format:\n\n")
	sb.WriteString("1. **Regional Appropriateness Score** (0-100): Output ONLY the number (0-100) on the first line.\n\n")
	fmt.Fprintf(&sb, "2. **Analysis**: A concise single paragraph (30-40 words) covering language appropriateness, cultural relevance and visual design fit for %s regional aesthetics.\n\n", region)
	sb.WriteString("3. **Recommendations**: 2-5 actionable bullet points starting with \"-\", e.g. \"Use saffron color (#FF9933) for better appeal\", \"Add text in " + lang + ": '...'\", \"Switch the font to Raleway for a contemporary look\", \"Add a thin dark blue border around the heading\".\n\n")

	texts := in.Texts
	sb.WriteString("4. **Text Suggestions**: For each text element, suggest a better alternative in this EXACT format:\n")
	sb.WriteString(pairedTemplate(parser.SectionText, fmt.Sprintf("%d text elements found", len(texts)), texts))

	styles := make([]string, 0, len(in.Styles))
	for _, s := range in.Styles {
		styles = append(styles, s.Original())
	}
	sb.WriteString("\n5. **Style/Font Suggestions**: For each font/style, suggest a better alternative in this EXACT format:\n")
	sb.WriteString(pairedTemplate(parser.SectionStyle, fmt.Sprintf("%d style suggestions", len(styles)), styles))

	fmt.Fprintf(&sb, "\n6. **Elements Suggestions**: Generate 2-3 SPECIFIC visual elements that represent %s culture. Return ONLY a valid JSON array in this EXACT format:\n", region)
	sb.WriteString(parser.StartMarker(parser.SectionElements) + "\n")
	sb.WriteString(`[
  {
    "type": "icon",
    "prompt": "Detailed image generation prompt here",
    "description": "Brief user-friendly description",
    "dimensions": { "width": 256, "height": 256 }
  }
]
`)
	sb.WriteString(parser.EndMarker(parser.SectionElements) + "\n\n")
	fmt.Fprintf(&sb, "Element rules: each element must be a real landmark, symbol or pattern from %s; prompts must be detailed and ready for an image model and include \"no text\"; use the types icon (256x256), pattern (512x512) or illustration (512x512).\n", region)

	colors := make([]string, 0, len(in.Colors))
	for _, c := range in.Colors {
		colors = append(colors, c.Hex)
	}
	sb.WriteString("\n7. **Color Suggestions**: For each color, suggest a better alternative hex code in this EXACT format:\n")
	sb.WriteString(pairedTemplate(parser.SectionColor, fmt.Sprintf("%d color suggestions", len(colors)), colors))

	fmt.Fprintf(&sb, "\nThe ELEMENTS_SUGGESTIONS section MUST be a valid JSON array. Be specific about %s regional variations, %s language usage, cultural symbols, color preferences and local customs.", region, lang)
	return sb.String()
}

// =============================================================================
// Single-value prompts
// =============================================================================

func elementType(el domain.ElementDescriptor, def string) string {
	return orDefault(string(el.Kind), def)
}

// TextSize asks for a single font size in pixels.
func TextSize(region, language string, el domain.ElementDescriptor, canvas domain.Bounds) string {
	size := "Unknown"
	if el.FontSizePt != nil {
		size = fmt.Sprintf("%g", *el.FontSizePt)
	}
	w, h := canvasSize(canvas)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a design expert specializing in regional typography for %s, India.\n\n", region)
	sb.WriteString("Context:\n")
	fmt.Fprintf(&sb, "- Target region: %s\n- Target language: %s\n", region, language)
	fmt.Fprintf(&sb, "- Element type: %s\n- Current text: %q\n- Current font size: %spx\n", elementType(el, "Text"), el.Text(), size)
	fmt.Fprintf(&sb, "- Canvas dimensions: %gx%g\n", w, h)
	fmt.Fprintf(&sb, "- Element position: x: %g, y: %g\n- Element dimensions: width: %g, height: %g\n\n", el.Bounds.X, el.Bounds.Y, el.Bounds.Width, el.Bounds.Height)
	sb.WriteString("Task: Suggest the optimal font size in pixels for this text element, considering regional typography preferences, readability for " + language + " and visual hierarchy.\n\n")
	sb.WriteString(`Output format: Return ONLY a number representing the font size in pixels (e.g. "24" or "32"). Do not include any other text or explanation.`)
	return sb.String()
}

// Color asks for one colour as "#HEX|RGB(r,g,b)|ALPHA".
func Color(region, language string, el domain.ElementDescriptor, current []string) string {
	colors := "None specified"
	if len(current) > 0 {
		colors = jsonOr(current, colors)
	}
	context := "Visual element"
	if t := el.Text(); t != "" {
		context = fmt.Sprintf("Text: %q", t)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert in Indian regional color psychology and cultural color associations for %s, India.\n\n", region)
	sb.WriteString("Context:\n")
	fmt.Fprintf(&sb, "- Target region: %s\n- Target language: %s\n- Element type: %s\n- Current colors: %s\n- Element context: %s\n\n", region, language, elementType(el, "Unknown"), colors, context)
	fmt.Fprintf(&sb, "Task: Suggest an appropriate color for this element that aligns with %s regional preferences and %s cultural associations.\n\n", region, language)
	sb.WriteString(`Output format: Return the color in this exact format: "#HEXCODE|RGB(r,g,b)|ALPHA"` + "\n")
	sb.WriteString(`Example: "#FF9933|RGB(255,153,51)|1.0"` + "\nDo not include any other text or explanation.")
	return sb.String()
}

// Position asks for coordinates as "x:N|y:N".
func Position(region, language string, el domain.ElementDescriptor, canvas domain.Bounds) string {
	content := "Visual element"
	if t := el.Text(); t != "" {
		content = fmt.Sprintf("%q", t)
	}
	w, h := canvasSize(canvas)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a design expert specializing in regional layout and visual hierarchy for %s, India.\n\n", region)
	sb.WriteString("Context:\n")
	fmt.Fprintf(&sb, "- Target region: %s\n- Target language: %s\n- Element type: %s\n", region, language, elementType(el, "Unknown"))
	fmt.Fprintf(&sb, "- Current position: x: %g, y: %g\n- Element dimensions: width: %g, height: %g\n", el.Bounds.X, el.Bounds.Y, el.Bounds.Width, el.Bounds.Height)
	fmt.Fprintf(&sb, "- Canvas dimensions: %gx%g\n- Element content: %s\n\n", w, h, content)
	sb.WriteString("Task: Suggest the optimal x and y coordinates for positioning this element on the canvas.\n\n")
	sb.WriteString(`Output format: Return the position in this exact format: "x:XX|y:YY"` + "\n")
	sb.WriteString(`Example: "x:100|y:200"` + "\nDo not include any other text or explanation.")
	return sb.String()
}

func canvasSize(b domain.Bounds) (float64, float64) {
	w, h := b.Width, b.Height
	if w <= 0 {
		w = 1920
	}
	if h <= 0 {
		h = 1080
	}
	return w, h
}
