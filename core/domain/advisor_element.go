package domain

// ElementKind is the type of a canvas node.
type ElementKind string

const (
	ElementText   ElementKind = "text"
	ElementShape  ElementKind = "shape"
	ElementGroup  ElementKind = "group"
	ElementCanvas ElementKind = "canvas" // whole page, used when nothing is selected
)

// Bounds is a node's bounding box in canvas points.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a canvas position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ElementDescriptor is a read-only snapshot of one canvas element at
// analysis time, plus attributes of the siblings analysed with it.
type ElementDescriptor struct {
	ID            string      `json:"id,omitempty"`
	Kind          ElementKind `json:"kind"`
	TextContent   *string     `json:"text_content,omitempty"`
	FontName      *string     `json:"font_name,omitempty"`
	FontSizePt    *float64    `json:"font_size_pt,omitempty"`
	FillColor     *RGBA       `json:"fill_color,omitempty"`
	StrokeColor   *RGBA       `json:"stroke_color,omitempty"`
	StrokeWidth   float64     `json:"stroke_width,omitempty"`
	Bounds        Bounds      `json:"bounds"`
	SiblingTexts  []string    `json:"sibling_texts,omitempty"`
	SiblingFonts  []string    `json:"sibling_fonts,omitempty"`
	SiblingColors []RGBA      `json:"sibling_colors,omitempty"`
}

// CanvasDescriptor describes an empty 1920x1080 page.
func CanvasDescriptor() ElementDescriptor {
	return ElementDescriptor{
		Kind:   ElementCanvas,
		Bounds: Bounds{Width: 1920, Height: 1080},
	}
}

// Texts returns the primary text followed by sibling texts, blanks removed.
func (e ElementDescriptor) Texts() []string {
	var out []string
	if e.TextContent != nil && *e.TextContent != "" {
		out = append(out, *e.TextContent)
	}
	for _, t := range e.SiblingTexts {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Fonts returns the primary font followed by sibling fonts.
func (e ElementDescriptor) Fonts() []string {
	var out []string
	if e.FontName != nil && *e.FontName != "" {
		out = append(out, *e.FontName)
	}
	for _, f := range e.SiblingFonts {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Colors returns the fill colour followed by sibling colours as hex codes.
func (e ElementDescriptor) Colors() []string {
	var out []string
	if e.FillColor != nil {
		out = append(out, e.FillColor.Hex())
	}
	for _, c := range e.SiblingColors {
		out = append(out, c.Hex())
	}
	return out
}

// IsText reports whether the element is a text node.
func (e ElementDescriptor) IsText() bool {
	return e.Kind == ElementText
}

// Text returns the primary text or "".
func (e ElementDescriptor) Text() string {
	if e.TextContent == nil {
		return ""
	}
	return *e.TextContent
}

// Ptr is a small helper for building descriptors.
func Ptr[T any](v T) *T {
	return &v
}
