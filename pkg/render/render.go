package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/geometry"
	"github.com/slotboard/slotboard/pkg/observability"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Mode selects the render surface: display is what visitors see, edit adds
// the overlay affordance layer on top of the identical structure.
type Mode string

const (
	ModeDisplay Mode = "display"
	ModeEdit    Mode = "edit"
)

// RenderFunc produces the node for one slot. Container children are
// appended by the dispatcher afterwards; a RenderFunc only builds the
// slot's own node.
type RenderFunc func(s slot.Slot, rc RenderContext) *Node

// RenderContext is what a RenderFunc may consult: the active data bags
// and viewport. Placeholder resolution goes through Resolve.
type RenderContext struct {
	Data     DataContext
	Viewport span.Viewport
	Mode     Mode
}

// Resolve substitutes placeholders in content against the data bags.
func (rc RenderContext) Resolve(content string) string {
	return rc.Data.Resolve(content)
}

// =============================================================================
// Registry
// =============================================================================

// Registry maps slot types and widget names to renderers. The zero value
// is unusable; NewRegistry preloads the built-in type renderers.
type Registry struct {
	types   map[slot.Type]RenderFunc
	widgets map[string]RenderFunc
}

// NewRegistry returns a registry with the built-in renderers installed.
func NewRegistry() *Registry {
	r := &Registry{
		types:   make(map[slot.Type]RenderFunc),
		widgets: make(map[string]RenderFunc),
	}
	r.types[slot.TypeText] = renderText
	r.types[slot.TypeButton] = renderButton
	r.types[slot.TypeLink] = renderButton
	r.types[slot.TypeImage] = renderImage
	r.types[slot.TypeInput] = renderInput
	r.types[slot.TypeContainer] = renderContainer
	r.types[slot.TypeGrid] = renderContainer
	r.types[slot.TypeFlex] = renderContainer
	return r
}

// Register installs (or replaces) the renderer for a slot type.
func (r *Registry) Register(t slot.Type, fn RenderFunc) {
	r.types[t] = fn
}

// RegisterWidget installs (or replaces) the renderer for a named widget.
func (r *Registry) RegisterWidget(name string, fn RenderFunc) {
	r.widgets[name] = fn
}

// lookup picks the renderer for a slot: widget name first, then slot
// type, then the generic fallback. An unknown type never fails a render.
func (r *Registry) lookup(s slot.Slot) (RenderFunc, error) {
	if name := s.Widget(); name != "" {
		if fn, ok := r.widgets[name]; ok {
			return fn, nil
		}
		return renderGeneric, errors.New(errors.ErrCodeRendererNotFound, "no renderer registered for widget %q", name)
	}
	if fn, ok := r.types[s.Type]; ok {
		return fn, nil
	}
	return renderGeneric, errors.New(errors.ErrCodeRendererNotFound, "no renderer registered for type %q", s.Type)
}

// =============================================================================
// Built-in renderers
// =============================================================================

func baseNode(kind string, s slot.Slot) *Node {
	n := &Node{Kind: kind, SlotID: s.ID}
	if s.ClassName != "" {
		n.Classes = append(n.Classes, s.ClassName)
	}
	if len(s.Styles) > 0 {
		n.Styles = make(map[string]string, len(s.Styles))
		for k, v := range s.Styles {
			n.Styles[k] = v
		}
	}
	return n
}

func renderText(s slot.Slot, rc RenderContext) *Node {
	n := baseNode("text", s)
	n.Content = rc.Resolve(s.Content)
	return n
}

func renderButton(s slot.Slot, rc RenderContext) *Node {
	n := baseNode("button", s)
	n.Content = rc.Resolve(s.Content)
	return n
}

func renderImage(s slot.Slot, rc RenderContext) *Node {
	n := baseNode("image", s)
	// Content carries the source reference; placeholder paths are allowed.
	n.Content = rc.Resolve(s.Content)
	return n
}

func renderInput(s slot.Slot, rc RenderContext) *Node {
	n := baseNode("input", s)
	n.Content = rc.Resolve(s.Content)
	return n
}

func renderContainer(s slot.Slot, _ RenderContext) *Node {
	return baseNode("container", s)
}

func renderGeneric(s slot.Slot, rc RenderContext) *Node {
	n := baseNode("generic", s)
	n.Content = rc.Resolve(s.Content)
	return n
}

// =============================================================================
// Dispatcher
// =============================================================================

// Renderer walks a collection and dispatches each slot to its renderer.
type Renderer struct {
	registry    *Registry
	mode        Mode
	viewport    span.Viewport
	viewContext string
	data        DataContext
	logger      *log.Logger
}

type Option func(*Renderer)

func WithRegistry(reg *Registry) Option    { return func(r *Renderer) { r.registry = reg } }
func WithMode(m Mode) Option               { return func(r *Renderer) { r.mode = m } }
func WithViewport(vp span.Viewport) Option { return func(r *Renderer) { r.viewport = vp } }
func WithViewContext(vc string) Option     { return func(r *Renderer) { r.viewContext = vc } }
func WithData(d DataContext) Option        { return func(r *Renderer) { r.data = d } }
func WithLogger(logger *log.Logger) Option { return func(r *Renderer) { r.logger = logger } }

// New builds a renderer. Defaults: built-in registry, display mode,
// desktop viewport, discarded logs.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		registry: NewRegistry(),
		mode:     ModeDisplay,
		viewport: span.ViewportDesktop,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render walks every root of the collection and returns a synthetic page
// node holding the rendered roots in geometry order.
func (r *Renderer) Render(c slot.Collection) *Node {
	page := &Node{Kind: "page"}
	for _, id := range r.rootOrder(c) {
		page.Children = append(page.Children, r.renderSlot(c, c[id]))
	}
	observability.Editor().RenderCompleted(string(r.mode), len(c))
	return page
}

// RenderSlot renders one subtree.
func (r *Renderer) RenderSlot(c slot.Collection, id string) (*Node, error) {
	s, ok := c[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSlotNotFound, "slot %s not found", id)
	}
	return r.renderSlot(c, s), nil
}

func (r *Renderer) renderSlot(c slot.Collection, s slot.Slot) *Node {
	fn, err := r.registry.lookup(s)
	if err != nil {
		// Fall back to the generic renderer rather than dropping content.
		r.logger.Debug("renderer fallback", "slot", s.ID, "err", err)
	}

	rc := RenderContext{Data: r.data, Viewport: r.viewport, Mode: r.mode}
	n := fn(s, rc)
	n.Classes = append(n.Classes, fmt.Sprintf("col-span-%d", s.ColSpan.Resolve(r.viewport)))

	if s.Type.IsContainer() {
		resolver := geometry.Resolver{Viewport: r.viewport, ViewContext: r.viewContext}
		for _, ch := range resolver.Children(c, s.ID) {
			n.Children = append(n.Children, r.renderSlot(c, ch.Slot))
		}
	}

	if r.mode == ModeEdit {
		n.Overlay = overlayFor(s)
	}
	return n
}

// rootOrder sorts the visible root slots the same way container children
// are sorted.
func (r *Renderer) rootOrder(c slot.Collection) []string {
	resolver := geometry.Resolver{Viewport: r.viewport, ViewContext: r.viewContext}
	return resolver.OrderedIDs(c, "")
}
