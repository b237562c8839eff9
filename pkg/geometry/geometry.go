// Package geometry derives spatial facts from the slot tree: grid-ordered
// children per container, visibility filtering, and the rectangles used for
// pointer hit-testing in the edit surface.
//
// The package is pure: it reads a collection and produces ordered lists and
// rectangles, never mutating anything. Both the render dispatcher (child
// ordering) and the drag classifier (target rectangles) consume it.
package geometry

import (
	"sort"

	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Child is a direct child of a container with its span already resolved
// for the resolver's active viewport.
type Child struct {
	Slot slot.Slot
	Span int
}

// Resolver answers ordering and visibility questions for one active
// viewport and view context.
type Resolver struct {
	// Viewport selects the responsive span values (defaults to desktop).
	Viewport span.Viewport

	// ViewContext filters slots by their view mode set. Empty matches
	// only slots visible everywhere or listing the empty context.
	ViewContext string

	// IncludeHidden disables the visibility filter. Structural passes
	// (sibling reflow) need every child; render passes do not.
	IncludeHidden bool
}

// viewport returns the active viewport, defaulting to desktop.
func (r Resolver) viewport() span.Viewport {
	if r.Viewport.Valid() {
		return r.Viewport
	}
	return span.ViewportDesktop
}

// Children returns the visible direct children of parentID in render
// order: primary key row ascending, secondary key col ascending. Slots
// without explicit coordinates sort after coordinated ones, keeping their
// relative order (ID order, the collection's stable iteration key).
func (r Resolver) Children(c slot.Collection, parentID string) []Child {
	vp := r.viewport()

	ids := c.ChildIDs(parentID)
	out := make([]Child, 0, len(ids))
	for _, id := range ids {
		s := c[id]
		if !r.IncludeHidden && !s.VisibleIn(r.ViewContext) {
			continue
		}
		out = append(out, Child{Slot: s, Span: s.ColSpan.Resolve(vp)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Slot.Position, out[j].Slot.Position
		if a.IsZero() != b.IsZero() {
			return !a.IsZero() // coordinated slots first
		}
		if a.IsZero() {
			return false // both unplaced: keep ID order
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return out
}

// OrderedIDs returns the IDs of Children in render order.
func (r Resolver) OrderedIDs(c slot.Collection, parentID string) []string {
	children := r.Children(c, parentID)
	ids := make([]string, len(children))
	for i, ch := range children {
		ids[i] = ch.Slot.ID
	}
	return ids
}

// SpanOf resolves a slot's effective span for the active viewport.
func (r Resolver) SpanOf(s slot.Slot) int {
	return s.ColSpan.Resolve(r.viewport())
}
