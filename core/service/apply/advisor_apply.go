// Package apply turns classified recommendations and parsed suggestions
// into document mutations.
package apply

import (
	"context"
	"fmt"
	"math"
	"strings"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"
	"advisor_server/core/service/knowledge"
	"advisor_server/core/service/parser"
	"advisor_server/core/service/prompt"
	"advisor_server/core/service/recommendation"
	"advisor_server/pkg/apperr"
	"advisor_server/pkg/logger"
)

// Layout constants, in canvas points.
const (
	DefaultOffset   = 50.0
	SelectionGap    = 20.0
	VisualSize      = 100.0
	BorderPadding   = 10.0
	relativeStep    = 0.15
	fallbackSizePt  = 24.0
	largerDefaultPx = 28
	smallerDefault  = 20
)

// ImageOrigin is where generated image placeholders are inserted.
var ImageOrigin = domain.Point{X: 100, Y: 100}

// Context is the per-request setting an apply runs in.
type Context struct {
	Region     string
	Language   string
	UseAIHints bool
	Canvas     domain.Bounds
}

// Result describes the mutation performed.
type Result struct {
	Kind    string
	Message string
	Nodes   []out.Node
}

// Deps are the orchestrator's collaborators. Document is required; the
// rest are optional and their features degrade when nil.
type Deps struct {
	Document   out.Document
	Translator out.Translator
	Text       out.TextGenerator
	Images     out.ImageGenerator
	Knowledge  *knowledge.KnowledgeBase
	Classifier *recommendation.Classifier
}

// Orchestrator applies one change at a time. Calls are sequential within a
// request; it keeps no state of its own.
type Orchestrator struct {
	doc        out.Document
	translator out.Translator
	text       out.TextGenerator
	images     out.ImageGenerator
	kb         *knowledge.KnowledgeBase
	classifier *recommendation.Classifier
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(deps Deps) *Orchestrator {
	o := &Orchestrator{
		doc:        deps.Document,
		translator: deps.Translator,
		text:       deps.Text,
		images:     deps.Images,
		kb:         deps.Knowledge,
		classifier: deps.Classifier,
	}
	if o.kb == nil {
		o.kb = knowledge.MustLoad()
	}
	if o.classifier == nil {
		o.classifier = recommendation.NewClassifier()
	}
	return o
}

// ApplyRecommendation classifies free text and applies the result.
func (o *Orchestrator) ApplyRecommendation(ctx context.Context, text string, ac Context) (domain.ParsedRecommendation, *Result, error) {
	parsed, err := o.classifier.Classify(text)
	if err != nil {
		return nil, nil, err
	}
	res, err := o.ApplyClassified(ctx, parsed, ac)
	return parsed, res, err
}

// ApplyClassified routes a classified recommendation to exactly one kind of
// document mutation.
func (o *Orchestrator) ApplyClassified(ctx context.Context, parsed domain.ParsedRecommendation, ac Context) (*Result, error) {
	log := logger.WithContext(ctx).WithField("kind", string(parsed.Kind()))

	var (
		res *Result
		err error
	)
	switch r := parsed.(type) {
	case domain.TextRecommendation:
		res, err = o.addText(ctx, r.Text, ac)
	case domain.ColorRecommendation:
		res, err = o.applyColor(ctx, r.Color)
	case domain.VisualRecommendation:
		res, err = o.addVisual(ctx, r.Shape)
	case domain.FontSizeRecommendation:
		res, err = o.applyFontSize(ctx, r)
	case domain.FontFamilyRecommendation:
		res, err = o.applyFontFamily(ctx, r.Name)
	case domain.BorderRecommendation:
		res, err = o.addBorder(ctx, r)
	default:
		err = apperr.ClassificationFailure(fmt.Sprintf("unsupported recommendation %T", parsed))
	}
	if err != nil {
		log.WithError(err).Warn("recommendation not applied")
		return nil, err
	}
	res.Kind = string(parsed.Kind())
	log.Debug("recommendation applied: %s", res.Message)
	return res, nil
}

func (o *Orchestrator) selection(ctx context.Context) ([]out.Node, error) {
	nodes, err := o.doc.Selection(ctx)
	if err != nil {
		return nil, apperr.ExternalServiceFailure("editor", err)
	}
	return nodes, nil
}

func mutationFailed(what string, err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.ApplicationFailure(what + ": " + err.Error()).WithError(err)
}

// =============================================================================
// Text
// =============================================================================

func (o *Orchestrator) addText(ctx context.Context, text string, ac Context) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.ApplicationFailure("No text content to add")
	}
	final := o.translate(ctx, text, ac.Language)

	sel, err := o.selection(ctx)
	if err != nil {
		return nil, err
	}
	at := domain.Point{X: DefaultOffset, Y: DefaultOffset}
	if len(sel) > 0 {
		b := sel[0].Bounds
		at = domain.Point{X: b.X, Y: b.Y + b.Height + SelectionGap}
	}

	spec := out.TextSpec{Text: final, At: at}
	if ac.UseAIHints {
		o.applyHints(ctx, &spec, ac)
	}

	node, err := o.doc.CreateText(ctx, spec)
	if err != nil {
		return nil, mutationFailed("create text", err)
	}
	return &Result{Message: "Text added", Nodes: []out.Node{node}}, nil
}

// translate renders English recommendation text in the target language.
// Any failure keeps the original text.
func (o *Orchestrator) translate(ctx context.Context, text, language string) string {
	if o.translator == nil || language == "" {
		return text
	}
	target := o.kb.LanguageCode(language)
	if target == knowledge.DefaultLanguageCode {
		return text
	}

	translated, err := o.translator.Translate(ctx, text, knowledge.DefaultLanguageCode, target)
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("target", target).Warn("translation failed, keeping original text")
		return text
	}
	if t := strings.TrimSpace(translated); t != "" {
		return t
	}
	return text
}

// applyHints asks the text model for a position and size. Failures keep
// the defaults.
func (o *Orchestrator) applyHints(ctx context.Context, spec *out.TextSpec, ac Context) {
	if o.text == nil {
		return
	}
	log := logger.WithContext(ctx)
	el := domain.ElementDescriptor{
		Kind:        domain.ElementText,
		TextContent: domain.Ptr(spec.Text),
		Bounds:      domain.Bounds{X: spec.At.X, Y: spec.At.Y},
	}

	if resp, err := o.text.Generate(ctx, prompt.AnalystPersona, prompt.Position(ac.Region, ac.Language, el, ac.Canvas)); err == nil {
		spec.At = parser.ParsePositionResponse(resp)
	} else {
		log.WithError(err).Warn("position hint unavailable")
	}

	if resp, err := o.text.Generate(ctx, prompt.AnalystPersona, prompt.TextSize(ac.Region, ac.Language, el, ac.Canvas)); err == nil {
		spec.SizePx = float64(parser.ParseFontSizeResponse(resp))
	} else {
		log.WithError(err).Warn("size hint unavailable")
	}
}

// =============================================================================
// Colour
// =============================================================================

func (o *Orchestrator) applyColor(ctx context.Context, c domain.RGB) (*Result, error) {
	sel, err := o.selection(ctx)
	if err != nil {
		return nil, err
	}
	if len(sel) == 0 {
		return nil, apperr.ApplicationFailure("Please select an element to apply color")
	}

	node := sel[0]
	switch {
	case node.IsText() && node.Text == "":
		return nil, apperr.ApplicationFailure("Text node has no content")
	case node.Kind != domain.ElementText && node.Kind != domain.ElementShape:
		return nil, apperr.ApplicationFailure("Selected element does not support color changes. Please select a shape or text element.")
	}

	if err := o.doc.SetFill(ctx, node.ID, c.RGBA()); err != nil {
		return nil, mutationFailed("set color", err)
	}
	node.Fill = domain.Ptr(c.RGBA())
	return &Result{Message: "Color " + c.Hex() + " applied", Nodes: []out.Node{node}}, nil
}

// =============================================================================
// Shapes
// =============================================================================

func (o *Orchestrator) addVisual(ctx context.Context, shape domain.ShapeKind) (*Result, error) {
	if shape == "" {
		return nil, apperr.ApplicationFailure("Could not determine visual element type")
	}
	sel, err := o.selection(ctx)
	if err != nil {
		return nil, err
	}
	at := domain.Point{X: DefaultOffset, Y: DefaultOffset}
	if len(sel) > 0 {
		b := sel[0].Bounds
		at = domain.Point{X: b.X + b.Width + SelectionGap, Y: b.Y}
	}

	node, err := o.doc.CreateShape(ctx, out.ShapeSpec{
		Shape:  shape,
		Bounds: domain.Bounds{X: at.X, Y: at.Y, Width: VisualSize, Height: VisualSize},
		Fill:   domain.VisualFill,
	})
	if err != nil {
		return nil, mutationFailed("create shape", err)
	}
	return &Result{Message: string(shape) + " added", Nodes: []out.Node{node}}, nil
}

func (o *Orchestrator) addBorder(ctx context.Context, r domain.BorderRecommendation) (*Result, error) {
	sel, err := o.selection(ctx)
	if err != nil {
		return nil, err
	}
	if len(sel) == 0 || !sel[0].IsText() {
		return nil, apperr.ApplicationFailure("Please select a text element to add a border around")
	}

	width := r.Width
	if width <= 0 {
		width = recommendation.BorderDefault
	}
	b := sel[0].Bounds
	node, err := o.doc.CreateShape(ctx, out.ShapeSpec{
		Shape: domain.ShapeRectangle,
		Bounds: domain.Bounds{
			X:      b.X - BorderPadding,
			Y:      b.Y - BorderPadding,
			Width:  b.Width + 2*BorderPadding,
			Height: b.Height + 2*BorderPadding,
		},
		Fill: domain.Transparent,
	})
	if err != nil {
		return nil, mutationFailed("create border", err)
	}
	if err := o.doc.SetStroke(ctx, node.ID, r.Color, width); err != nil {
		return nil, mutationFailed("set border stroke", err)
	}
	node.Stroke = domain.Ptr(r.Color)
	node.StrokeWidth = width
	return &Result{Message: fmt.Sprintf("Border %gpx added", width), Nodes: []out.Node{node}}, nil
}

// =============================================================================
// Typography
// =============================================================================

// textTargets is the selected text node, or every non-empty text node in
// the document when the selection holds no text.
func (o *Orchestrator) textTargets(ctx context.Context) ([]out.Node, bool, error) {
	sel, err := o.selection(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(sel) > 0 && sel[0].IsText() {
		return sel[:1], true, nil
	}

	all, err := o.doc.TextNodes(ctx)
	if err != nil {
		return nil, false, apperr.ExternalServiceFailure("editor", err)
	}
	targets := make([]out.Node, 0, len(all))
	for _, n := range all {
		if n.Text != "" {
			targets = append(targets, n)
		}
	}
	if len(targets) == 0 {
		return nil, false, apperr.ApplicationFailure("No text elements found in the document")
	}
	return targets, false, nil
}

// ResolveFontSize turns a recommendation into pixels. current is the
// selected text size, 0 when nothing is selected.
func ResolveFontSize(r domain.FontSizeRecommendation, current float64, selected bool) int {
	if !r.IsRelative() {
		return r.Px
	}
	if !selected {
		if r.Relative == domain.SizeLarger {
			return largerDefaultPx
		}
		return smallerDefault
	}
	if current <= 0 {
		current = fallbackSizePt
	}
	if r.Relative == domain.SizeLarger {
		return int(math.Round(current * (1 + relativeStep)))
	}
	return int(math.Round(current * (1 - relativeStep)))
}

func (o *Orchestrator) applyFontSize(ctx context.Context, r domain.FontSizeRecommendation) (*Result, error) {
	if !r.IsRelative() && r.Px <= 0 {
		return nil, apperr.ApplicationFailure("Could not extract font size from recommendation")
	}
	targets, selected, err := o.textTargets(ctx)
	if err != nil {
		return nil, err
	}

	var current float64
	if selected {
		current = targets[0].FontSizePt
	}
	size := float64(ResolveFontSize(r, current, selected))

	for i := range targets {
		if err := o.doc.SetFontSize(ctx, targets[i].ID, size); err != nil {
			return nil, mutationFailed("set font size", err)
		}
		targets[i].FontSizePt = size
	}
	return &Result{Message: fmt.Sprintf("Font size %g applied to %d text element(s)", size, len(targets)), Nodes: targets}, nil
}

// firstAvailable returns the first loadable PostScript name.
func (o *Orchestrator) firstAvailable(ctx context.Context, names []string) (string, bool) {
	for _, n := range names {
		if o.doc.FontAvailable(ctx, n) {
			return n, true
		}
	}
	return "", false
}

func (o *Orchestrator) applyFontFamily(ctx context.Context, family string) (*Result, error) {
	if strings.TrimSpace(family) == "" {
		return nil, apperr.ApplicationFailure("Could not extract font family from recommendation")
	}
	candidates := recommendation.PostScriptCandidates(family)
	font, ok := o.firstAvailable(ctx, candidates)
	if !ok {
		return nil, apperr.ApplicationFailure(fmt.Sprintf("Font %q not available for editing", recommendation.PostScriptName(family))).
			WithDetail("tried", candidates)
	}

	targets, _, err := o.textTargets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range targets {
		if err := o.doc.SetFont(ctx, targets[i].ID, font); err != nil {
			return nil, mutationFailed("set font", err)
		}
		targets[i].FontName = font
	}
	return &Result{Message: fmt.Sprintf("Font %s applied to %d text element(s)", font, len(targets)), Nodes: targets}, nil
}
