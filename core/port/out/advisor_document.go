package out

import (
	"context"

	"advisor_server/core/domain"
)

// Node is a snapshot of one document node.
type Node struct {
	ID          string             `json:"id"`
	Kind        domain.ElementKind `json:"kind"`
	Shape       domain.ShapeKind   `json:"shape,omitempty"`
	Text        string             `json:"text,omitempty"`
	FontName    string             `json:"font_name,omitempty"`
	FontSizePt  float64            `json:"font_size_pt,omitempty"`
	Fill        *domain.RGBA       `json:"fill,omitempty"`
	Stroke      *domain.RGBA       `json:"stroke,omitempty"`
	StrokeWidth float64            `json:"stroke_width,omitempty"`
	Bounds      domain.Bounds      `json:"bounds"`
	ImageURL    string             `json:"image_url,omitempty"`
}

// IsText reports whether the node holds text.
func (n Node) IsText() bool { return n.Kind == domain.ElementText }

// ShapeSpec describes a shape to insert.
type ShapeSpec struct {
	Shape    domain.ShapeKind
	Bounds   domain.Bounds
	Fill     domain.RGBA
	ImageURL string
}

// TextSpec describes a text node to insert.
type TextSpec struct {
	Text     string
	At       domain.Point
	SizePx   float64
	FontName string
}

// Selection reads what the user is working on.
type Selection interface {
	// Selection returns the selected nodes in selection order.
	Selection(ctx context.Context) ([]Node, error)
	// TextNodes returns every text node in the document.
	TextNodes(ctx context.Context) ([]Node, error)
}

// Editor mutates the document. Mutations on unknown ids fail.
type Editor interface {
	CreateText(ctx context.Context, spec TextSpec) (Node, error)
	CreateShape(ctx context.Context, spec ShapeSpec) (Node, error)
	SetFill(ctx context.Context, id string, c domain.RGBA) error
	SetStroke(ctx context.Context, id string, c domain.RGBA, width float64) error
	SetFontSize(ctx context.Context, id string, sizePt float64) error
	SetFont(ctx context.Context, id string, postScriptName string) error
	ReplaceText(ctx context.Context, id string, text string) error

	// FontAvailable reports whether a PostScript font can be loaded.
	FontAvailable(ctx context.Context, postScriptName string) bool
}

// Document is the editor plus its selection.
type Document interface {
	Selection
	Editor
}
