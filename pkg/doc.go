// Package pkg provides the core libraries for the Slotboard layout engine.
//
// # Overview
//
// Slotboard edits and renders tree-structured page layouts: a page is a
// tree of slots placed on a 12-column grid, manipulated directly in an
// editor and persisted as a configuration document. The pkg directory is
// organized by concern:
//
//  1. [slot] - The data model: slots, collections, tree invariants
//  2. [geometry] - Ordering, visibility, rectangles, hit testing
//  3. [editor] - Gestures: drag classification, resize, session state
//  4. [mutate] - Pure structural operations over collections
//  5. [render] - Node trees and terminal/HTML printers
//  6. [store] - Persistence, debounced sync, invalidation
//
// # Architecture
//
// The typical data flow through Slotboard:
//
//	Stored document (file / MongoDB)
//	         ↓
//	    [slot] package (collection + invariants)
//	         ↓
//	    [geometry] package (ordering + rectangles)
//	         ↓
//	    [editor] + [mutate] (gestures → new collection)
//	         ↓
//	    [render] (node tree → terminal or HTML)
//	         ↓
//	    [store] (debounced save + invalidation broadcast)
//
// # Quick Start
//
// Load a document, apply a drop, and render it:
//
//	import (
//	    "context"
//	    "github.com/slotboard/slotboard/pkg/editor"
//	    "github.com/slotboard/slotboard/pkg/mutate"
//	    "github.com/slotboard/slotboard/pkg/render"
//	    "github.com/slotboard/slotboard/pkg/slot/span"
//	    "github.com/slotboard/slotboard/pkg/store"
//	)
//
//	st, _ := store.NewFileStore("")
//	doc, _ := st.Get(context.Background(), "default", "product")
//
//	// Move slot "b" before slot "a".
//	slots, _ := mutate.Move(doc.Slots, "b", "a", editor.ZoneBefore, span.ViewportDesktop)
//	doc.Slots = slots
//
//	// Render the display surface.
//	html := render.HTML{}.Print(render.New().Render(doc.Slots))
//
// # Main Packages
//
// [slot] - The slot entity and its collection: types, per-viewport spans,
// grid positions, metadata flags, and the structural invariants (acyclic
// parents, bounded spans, non-overlapping siblings). The [slot/span]
// subpackage normalizes the historical colSpan encodings.
//
// [geometry] - Pure spatial queries: children in render order, visibility
// filtering by view context, grid rectangles for the edit surface, and
// topmost-wins hit testing.
//
// [editor] - Gesture machinery: the drag classifier (movement-direction
// dominance with positional fallback), quantized resize gestures, and the
// session state machine guaranteeing pointer capture/release pairing.
//
// [mutate] - Structural operations as pure functions from collection to
// collection: move to a classified drop zone, resize, delete with cascade,
// add. Every commit revalidates the tree invariants.
//
// [render] - Structural node trees with a separately composited edit
// overlay layer, per-type and per-widget renderer registry, placeholder
// resolution against read-only data bags, and terminal/HTML printers.
//
// [store] - Document persistence with memory, file, and MongoDB backends,
// a debounced last-write-wins syncer, and invalidation broadcast over an
// in-process bus or redis pub/sub.
//
// [config] - TOML configuration with validation and defaults.
//
// [errors] - Structured error codes shared across the engine.
//
// [observability] - Hook registry for editor and store events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/mutate/...     # Specific package
//
// [slot]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/slot
// [slot/span]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/slot/span
// [geometry]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/geometry
// [editor]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/editor
// [mutate]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/mutate
// [render]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/render
// [store]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/store
// [config]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/config
// [errors]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/slotboard/slotboard/pkg/observability
package pkg
