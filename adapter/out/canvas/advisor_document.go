// Package canvas is an in-memory document that implements the editor and
// selection ports. It stands in for the design tool's scene graph.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"advisor_server/core/domain"
	"advisor_server/core/port/out"
	"advisor_server/pkg/snowflake"
)

var (
	ErrNodeNotFound = errors.New("canvas: node not found")
	ErrUnsupported  = errors.New("canvas: operation not supported by node")
	ErrFontMissing  = errors.New("canvas: font not available")
)

// Document holds nodes in insertion order plus the current selection.
// Safe for concurrent use.
type Document struct {
	mu        sync.RWMutex
	nodes     map[string]*out.Node
	order     []string
	selection []string
	fonts     map[string]struct{}
	ids       *snowflake.Generator
}

// New creates an empty document. When fonts is nil every font is
// available; otherwise only the listed PostScript names load.
func New(ids *snowflake.Generator, fonts []string) *Document {
	if ids == nil {
		ids, _ = snowflake.NewGenerator(0)
	}
	d := &Document{
		nodes: make(map[string]*out.Node),
		ids:   ids,
	}
	if fonts != nil {
		d.fonts = make(map[string]struct{}, len(fonts))
		for _, f := range fonts {
			d.fonts[f] = struct{}{}
		}
	}
	return d
}

var _ out.Document = (*Document)(nil)

func (d *Document) nextID() (string, error) {
	return d.ids.NextString("node-")
}

// insert must be called with the lock held.
func (d *Document) insert(n out.Node) (out.Node, error) {
	if n.ID == "" {
		id, err := d.nextID()
		if err != nil {
			return out.Node{}, err
		}
		n.ID = id
	}
	if _, exists := d.nodes[n.ID]; exists {
		return out.Node{}, fmt.Errorf("canvas: duplicate node id %q", n.ID)
	}
	stored := n
	d.nodes[n.ID] = &stored
	d.order = append(d.order, n.ID)
	return n, nil
}

// =============================================================================
// Seeding / inspection
// =============================================================================

// Seed adds nodes as-is, assigning ids where missing.
func (d *Document) Seed(nodes ...out.Node) ([]out.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	added := make([]out.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == "" {
			n.Kind = domain.ElementShape
		}
		stored, err := d.insert(n)
		if err != nil {
			return added, err
		}
		added = append(added, stored)
	}
	return added, nil
}

// Select replaces the selection. Unknown ids are rejected.
func (d *Document) Select(ids ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		if _, ok := d.nodes[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}
	d.selection = append([]string(nil), ids...)
	return nil
}

// Nodes returns every node in insertion order.
func (d *Document) Nodes() []out.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.collect(d.order)
}

// Node returns one node.
func (d *Document) Node(id string) (out.Node, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.nodes[id]
	if !ok {
		return out.Node{}, false
	}
	return *n, true
}

// AddFonts makes more PostScript names loadable.
func (d *Document) AddFonts(names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fonts == nil {
		return
	}
	for _, n := range names {
		d.fonts[n] = struct{}{}
	}
}

// Reset removes every node and clears the selection.
func (d *Document) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes = make(map[string]*out.Node)
	d.order = nil
	d.selection = nil
}

func (d *Document) collect(ids []string) []out.Node {
	nodes := make([]out.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := d.nodes[id]; ok {
			nodes = append(nodes, *n)
		}
	}
	return nodes
}

// =============================================================================
// Selection port
// =============================================================================

func (d *Document) Selection(_ context.Context) ([]out.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.collect(d.selection), nil
}

func (d *Document) TextNodes(_ context.Context) ([]out.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var texts []out.Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.IsText() {
			texts = append(texts, *n)
		}
	}
	return texts, nil
}

// =============================================================================
// Editor port
// =============================================================================

func (d *Document) CreateText(_ context.Context, spec out.TextSpec) (out.Node, error) {
	if strings.TrimSpace(spec.Text) == "" {
		return out.Node{}, fmt.Errorf("canvas: empty text")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	size := spec.SizePx
	if size <= 0 {
		size = 24
	}
	return d.insert(out.Node{
		Kind:       domain.ElementText,
		Text:       spec.Text,
		FontName:   spec.FontName,
		FontSizePt: size,
		Bounds: domain.Bounds{
			X:      spec.At.X,
			Y:      spec.At.Y,
			Width:  float64(len([]rune(spec.Text))) * size * 0.6,
			Height: size * 1.2,
		},
	})
}

func (d *Document) CreateShape(_ context.Context, spec out.ShapeSpec) (out.Node, error) {
	if spec.Bounds.Width <= 0 || spec.Bounds.Height <= 0 {
		return out.Node{}, fmt.Errorf("canvas: shape needs a positive size")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	fill := spec.Fill
	return d.insert(out.Node{
		Kind:     domain.ElementShape,
		Shape:    spec.Shape,
		Fill:     &fill,
		Bounds:   spec.Bounds,
		ImageURL: spec.ImageURL,
	})
}

// mutate runs fn on the stored node under the write lock.
func (d *Document) mutate(id string, fn func(n *out.Node) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return fn(n)
}

// SetFill colours shapes and, on text nodes, the text itself.
func (d *Document) SetFill(_ context.Context, id string, c domain.RGBA) error {
	return d.mutate(id, func(n *out.Node) error {
		if n.Kind != domain.ElementShape && n.Kind != domain.ElementText {
			return fmt.Errorf("%w: fill on %s", ErrUnsupported, n.Kind)
		}
		n.Fill = &c
		return nil
	})
}

func (d *Document) SetStroke(_ context.Context, id string, c domain.RGBA, width float64) error {
	return d.mutate(id, func(n *out.Node) error {
		if n.Kind != domain.ElementShape {
			return fmt.Errorf("%w: stroke on %s", ErrUnsupported, n.Kind)
		}
		n.Stroke = &c
		n.StrokeWidth = width
		return nil
	})
}

func (d *Document) SetFontSize(_ context.Context, id string, sizePt float64) error {
	if sizePt <= 0 {
		return fmt.Errorf("canvas: font size must be positive")
	}
	return d.mutate(id, func(n *out.Node) error {
		if !n.IsText() {
			return fmt.Errorf("%w: font size on %s", ErrUnsupported, n.Kind)
		}
		n.FontSizePt = sizePt
		return nil
	})
}

func (d *Document) SetFont(ctx context.Context, id string, postScriptName string) error {
	if !d.FontAvailable(ctx, postScriptName) {
		return fmt.Errorf("%w: %s", ErrFontMissing, postScriptName)
	}
	return d.mutate(id, func(n *out.Node) error {
		if !n.IsText() {
			return fmt.Errorf("%w: font on %s", ErrUnsupported, n.Kind)
		}
		n.FontName = postScriptName
		return nil
	})
}

func (d *Document) ReplaceText(_ context.Context, id string, text string) error {
	return d.mutate(id, func(n *out.Node) error {
		if !n.IsText() {
			return fmt.Errorf("%w: text on %s", ErrUnsupported, n.Kind)
		}
		n.Text = text
		return nil
	})
}

func (d *Document) FontAvailable(_ context.Context, postScriptName string) bool {
	if postScriptName == "" {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.fonts == nil {
		return true
	}
	_, ok := d.fonts[postScriptName]
	return ok
}
