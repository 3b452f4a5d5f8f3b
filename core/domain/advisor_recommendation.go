package domain

// RecommendationKind discriminates classified recommendations.
type RecommendationKind string

const (
	RecommendationText       RecommendationKind = "text"
	RecommendationColor      RecommendationKind = "color"
	RecommendationVisual     RecommendationKind = "visual"
	RecommendationFontSize   RecommendationKind = "fontSize"
	RecommendationFontFamily RecommendationKind = "fontFamily"
	RecommendationBorder     RecommendationKind = "border"
)

// ShapeKind is the shape a visual recommendation inserts.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeRectangle ShapeKind = "rectangle"
	ShapeTriangle  ShapeKind = "triangle"
)

// Relative font size markers.
const (
	SizeLarger  = "larger"
	SizeSmaller = "smaller"
)

// ParsedRecommendation is the classified intent of one free-text
// recommendation. Exactly one variant is produced per classification.
type ParsedRecommendation interface {
	Kind() RecommendationKind
	isRecommendation()
}

// TextRecommendation inserts literal text.
type TextRecommendation struct {
	Text string `json:"text"`
}

// ColorRecommendation recolours the selection.
type ColorRecommendation struct {
	Color RGB `json:"color"`
}

// VisualRecommendation inserts a decorative shape.
type VisualRecommendation struct {
	Shape ShapeKind `json:"shape"`
}

// FontSizeRecommendation carries either an absolute pixel size or a
// relative marker ("larger" / "smaller").
type FontSizeRecommendation struct {
	Px       int    `json:"px,omitempty"`
	Relative string `json:"relative,omitempty"`
}

// IsRelative reports whether the size is relative to the current one.
func (r FontSizeRecommendation) IsRelative() bool {
	return r.Relative != ""
}

// FontFamilyRecommendation switches font family; Name is lower-case.
type FontFamilyRecommendation struct {
	Name string `json:"name"`
}

// BorderRecommendation frames the selected text.
type BorderRecommendation struct {
	Color RGBA    `json:"color"`
	Width float64 `json:"width"`
}

func (TextRecommendation) Kind() RecommendationKind       { return RecommendationText }
func (ColorRecommendation) Kind() RecommendationKind      { return RecommendationColor }
func (VisualRecommendation) Kind() RecommendationKind     { return RecommendationVisual }
func (FontSizeRecommendation) Kind() RecommendationKind   { return RecommendationFontSize }
func (FontFamilyRecommendation) Kind() RecommendationKind { return RecommendationFontFamily }
func (BorderRecommendation) Kind() RecommendationKind     { return RecommendationBorder }

func (TextRecommendation) isRecommendation()       {}
func (ColorRecommendation) isRecommendation()      {}
func (VisualRecommendation) isRecommendation()     {}
func (FontSizeRecommendation) isRecommendation()   {}
func (FontFamilyRecommendation) isRecommendation() {}
func (BorderRecommendation) isRecommendation()     {}

// ClassifiedRecommendation is the JSON view of a classification.
type ClassifiedRecommendation struct {
	Kind    RecommendationKind   `json:"kind"`
	Payload ParsedRecommendation `json:"payload"`
}

// Describe wraps a parsed recommendation for output.
func Describe(r ParsedRecommendation) ClassifiedRecommendation {
	return ClassifiedRecommendation{Kind: r.Kind(), Payload: r}
}
