package apply

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"
	"advisor_server/core/service/colormath"
	"advisor_server/core/service/parser"
	"advisor_server/core/service/prompt"
	"advisor_server/core/service/recommendation"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/logger"
)

// ApplySuggestion performs the mutation a parsed suggestion describes.
// Legacy suggestions are classified first.
func (o *Orchestrator) ApplySuggestion(ctx context.Context, s domain.Suggestion, ac Context) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch v := s.(type) {
	case domain.TextSuggestion:
		res, err = o.replaceText(ctx, v)
	case domain.StyleSuggestion:
		res, err = o.applyStyle(ctx, v)
	case domain.ColorSuggestion:
		res, err = o.recolorSelection(ctx, v)
	case domain.ImageSuggestion:
		res, err = o.insertImageSuggestion(ctx, v)
	case domain.LegacyTextSuggestion:
		_, res, err = o.ApplyRecommendation(ctx, v.Text, ac)
	default:
		err = apperr.BadRequest(fmt.Sprintf("unsupported suggestion %T", s))
	}
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("kind", string(s.Kind())).Warn("suggestion not applied")
		return nil, err
	}
	if res.Kind == "" {
		res.Kind = string(s.Kind())
	}
	return res, nil
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}

// =============================================================================
// Text
// =============================================================================

func (o *Orchestrator) replaceText(ctx context.Context, s domain.TextSuggestion) (*Result, error) {
	if s.Original == "" {
		return nil, apperr.ApplicationFailure("Original text is required")
	}
	if s.Suggestion == "" {
		return nil, apperr.ApplicationFailure("Suggested text is required")
	}

	nodes, err := o.doc.TextNodes(ctx)
	if err != nil {
		return nil, apperr.ExternalServiceFailure("editor", err)
	}
	want := strings.TrimSpace(s.Original)
	for _, n := range nodes {
		if n.Text != s.Original && strings.TrimSpace(n.Text) != want {
			continue
		}
		if err := o.doc.ReplaceText(ctx, n.ID, s.Suggestion); err != nil {
			return nil, mutationFailed("replace text", err)
		}
		n.Text = s.Suggestion
		return &Result{Message: "Text replaced successfully", Nodes: []out.Node{n}}, nil
	}
	return nil, apperr.ApplicationFailure(fmt.Sprintf("No text node found matching: %q", preview(s.Original)))
}

// =============================================================================
// Style
// =============================================================================

var fontNoise = regexp.MustCompile(`[\s-]+`)

func normalizeFont(name string) string {
	return fontNoise.ReplaceAllString(strings.ToLower(name), "")
}

// FontMatches compares font names loosely: case, spaces and dashes are
// ignored and either may contain the other.
func FontMatches(nodeFont, wanted string) bool {
	a, b := normalizeFont(nodeFont), normalizeFont(wanted)
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func (o *Orchestrator) nodesWithStyle(ctx context.Context, spec parser.StyleSpec) ([]out.Node, error) {
	nodes, err := o.doc.TextNodes(ctx)
	if err != nil {
		return nil, apperr.ExternalServiceFailure("editor", err)
	}
	var matches []out.Node
	for _, n := range nodes {
		if FontMatches(n.FontName, spec.FontName) && math.Abs(n.FontSizePt-spec.SizePt) < 0.1 {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

func (o *Orchestrator) applyStyle(ctx context.Context, s domain.StyleSuggestion) (*Result, error) {
	from := parser.ParseStyle(s.Original)
	if from.FontName == "" || !from.HasSize() {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("Style parsing error: could not parse original style %q", s.Original))
	}
	to := parser.ParseStyle(s.Suggestion)
	if to.FontName == "" || !to.HasSize() {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("Style parsing error: could not parse suggested style %q", s.Suggestion))
	}

	targets, err := o.nodesWithStyle(ctx, from)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("No matching text found for style %q", s.Original))
	}

	variations := recommendation.PostScriptVariations(to.FontName)
	font, ok := o.firstAvailable(ctx, variations)
	if !ok {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("Font not found: %q. Tried %d variations", to.FontName, len(variations))).
			WithDetail("tried", variations)
	}

	log := logger.WithContext(ctx).WithField("font", font)
	applied := make([]out.Node, 0, len(targets))
	for _, n := range targets {
		if err := o.doc.SetFont(ctx, n.ID, font); err != nil {
			log.WithError(err).WithField("node", n.ID).Warn("style not applied to node")
			continue
		}
		if err := o.doc.SetFontSize(ctx, n.ID, to.SizePt); err != nil {
			log.WithError(err).WithField("node", n.ID).Warn("size not applied to node")
			continue
		}
		n.FontName, n.FontSizePt = font, to.SizePt
		applied = append(applied, n)
	}
	if len(applied) == 0 {
		return nil, apperr.ApplicationFailure("Failed to apply style to any matching text element")
	}
	return &Result{Message: fmt.Sprintf("Style applied successfully to %d text element(s)", len(applied)), Nodes: applied}, nil
}

// =============================================================================
// Colour
// =============================================================================

var suggestedHex = regexp.MustCompile(`#([0-9A-Fa-f]{6})(?:[0-9A-Fa-f]{2})?`)

func (o *Orchestrator) recolorSelection(ctx context.Context, s domain.ColorSuggestion) (*Result, error) {
	m := suggestedHex.FindStringSubmatch(s.Suggestion)
	if m == nil {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("No color code in suggestion %q", s.Suggestion))
	}
	rgb, ok := colormath.HexToRGB(m[1])
	if !ok {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("Invalid color code %q", m[0]))
	}
	c := rgb.RGBA()

	sel, err := o.selection(ctx)
	if err != nil {
		return nil, err
	}
	if len(sel) == 0 {
		return nil, apperr.ApplicationFailure("Please select an element to apply the color suggestion")
	}

	for i, n := range sel {
		if err := o.doc.SetFill(ctx, n.ID, c); err != nil {
			return nil, mutationFailed("set color", err)
		}
		sel[i].Fill = domain.Ptr(c)
		if n.Stroke != nil {
			if err := o.doc.SetStroke(ctx, n.ID, c, n.StrokeWidth); err != nil {
				return nil, mutationFailed("set stroke", err)
			}
			sel[i].Stroke = domain.Ptr(c)
		}
	}
	return &Result{Message: "Color " + rgb.Hex() + " applied successfully", Nodes: sel}, nil
}

// =============================================================================
// Images
// =============================================================================

func (o *Orchestrator) insertImageSuggestion(ctx context.Context, s domain.ImageSuggestion) (*Result, error) {
	dims := s.Dimensions
	if dims.Width <= 0 || dims.Height <= 0 {
		dims = domain.DefaultDimensions
	}
	url, err := o.GenerateImage(ctx, s.Prompt, dims)
	if err != nil {
		return nil, err
	}
	node, err := o.InsertImage(ctx, url, dims)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "Image generated successfully", Nodes: []out.Node{node}}, nil
}

// GenerateImage calls the image port.
func (o *Orchestrator) GenerateImage(ctx context.Context, imagePrompt string, dims domain.Dimensions) (string, error) {
	if o.images == nil {
		return "", apperr.Unavailable("image generation")
	}
	if strings.TrimSpace(imagePrompt) == "" {
		return "", apperr.ApplicationFailure("Image prompt is required")
	}

	url, err := o.images.GenerateImage(ctx, out.ImageRequest{
		Prompt:      imagePrompt,
		Dimensions:  dims,
		AspectRatio: prompt.AspectRatio(dims),
	})
	if err != nil {
		if apperr.IsAppError(err) {
			return "", err
		}
		return "", apperr.ExternalServiceFailure("image generation", err)
	}
	if url == "" {
		return "", apperr.ExternalServiceFailure("image generation", fmt.Errorf("empty result"))
	}
	return url, nil
}

// InsertImage adds a light grey placeholder carrying the image at
// ImageOrigin.
func (o *Orchestrator) InsertImage(ctx context.Context, imageURL string, dims domain.Dimensions) (out.Node, error) {
	node, err := o.doc.CreateShape(ctx, out.ShapeSpec{
		Shape: domain.ShapeRectangle,
		Bounds: domain.Bounds{
			X:      ImageOrigin.X,
			Y:      ImageOrigin.Y,
			Width:  float64(dims.Width),
			Height: float64(dims.Height),
		},
		Fill:     domain.PlaceholderFill,
		ImageURL: imageURL,
	})
	if err != nil {
		return out.Node{}, mutationFailed("insert image", err)
	}
	return node, nil
}
