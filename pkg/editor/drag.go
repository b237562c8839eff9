// Package editor implements the interactive machinery of the edit surface:
// drop-zone classification for drags, grid-quantized resize gestures, and
// the session state machine that keeps the two mutually exclusive.
//
// Everything here is side-effect free and platform neutral. Pointer capture
// and cursor styling are isolated behind the [Pointer] adapter so the
// classification logic stays unit-testable; the caller (a terminal surface,
// a browser bridge) owns the actual event loop.
package editor

import (
	"math"

	"github.com/slotboard/slotboard/pkg/geometry"
	"github.com/slotboard/slotboard/pkg/slot"
)

// Zone is the classified drop intent for a drag-over event. It feeds the
// live drop indicator and is the sole input to the eventual drop commit.
type Zone int

// Drop zones.
const (
	ZoneNone Zone = iota
	ZoneBefore
	ZoneAfter
	ZoneLeft
	ZoneRight
	ZoneInside
)

// String returns the zone name used in logs and hook events.
func (z Zone) String() string {
	switch z {
	case ZoneBefore:
		return "before"
	case ZoneAfter:
		return "after"
	case ZoneLeft:
		return "left"
	case ZoneRight:
		return "right"
	case ZoneInside:
		return "inside"
	default:
		return "none"
	}
}

// DragState is the gesture history of an in-flight drag: where it started
// and where the pointer is now, in surface coordinates.
type DragState struct {
	DraggedID string
	StartX    float64
	StartY    float64
	X         float64
	Y         float64
}

// Displacement returns the pointer's net movement since drag start.
func (d DragState) Displacement() (dx, dy float64) {
	return d.X - d.StartX, d.Y - d.StartY
}

// Target describes the slot currently under the pointer.
type Target struct {
	ID          string
	Rect        geometry.Rect
	IsContainer bool

	// SameParent is true when dragged and target share a parent
	// (reordering rather than moving across containers).
	SameParent bool

	// SameRow is true when dragged and target are siblings on the same
	// grid row (the horizontal reordering case).
	SameRow bool
}

// DefaultDirectionRatio is the share of total displacement one axis must
// exceed before the movement-direction heuristic decides the zone.
const DefaultDirectionRatio = 0.8

// Classifier turns pointer geometry and gesture history into a drop zone.
type Classifier struct {
	// DirectionRatio overrides DefaultDirectionRatio when > 0. An axis
	// must strictly exceed this share of total displacement to win;
	// near-diagonal movement falls through to position thresholds.
	DirectionRatio float64
}

func (cl Classifier) ratio() float64 {
	if cl.DirectionRatio > 0 {
		return cl.DirectionRatio
	}
	return DefaultDirectionRatio
}

// Classify produces the drop zone for the target under the pointer.
//
// Invalid targets are silently rejected: dropping a slot onto itself, or a
// container onto one of its own descendants, returns ZoneNone rather than
// an error.
//
// Zone detection is two-tiered. The movement-direction heuristic compares
// the pointer's displacement since drag start against both axes; a
// dominant axis decides the zone by displacement sign, favoring the user's
// gesture over exact pointer position. When displacement is ambiguous or
// absent, positional thresholds decide: vertical thirds for stacking,
// horizontal halves for same-row sibling reordering, and a central band
// offering inside for container targets.
func (cl Classifier) Classify(c slot.Collection, d DragState, t Target) Zone {
	if t.ID == "" || d.DraggedID == "" || t.ID == d.DraggedID {
		return ZoneNone
	}
	// A container dropped into its own subtree would create a cycle.
	if c.IsAncestor(d.DraggedID, t.ID) {
		return ZoneNone
	}

	dx, dy := d.Displacement()
	adx, ady := math.Abs(dx), math.Abs(dy)
	total := adx + ady

	if total > 0 {
		switch {
		case adx > cl.ratio()*total:
			if dx < 0 {
				return ZoneLeft
			}
			return ZoneRight
		case ady > cl.ratio()*total:
			if dy < 0 {
				return ZoneBefore
			}
			return ZoneAfter
		}
	}

	return cl.positional(d, t)
}

// positional is the fallback for ambiguous or absent displacement.
func (cl Classifier) positional(d DragState, t Target) Zone {
	if t.SameParent && t.SameRow {
		if t.Rect.RelX(d.X) < 0.5 {
			return ZoneLeft
		}
		return ZoneRight
	}

	relY := t.Rect.RelY(d.Y)
	switch {
	case relY < 1.0/3:
		return ZoneBefore
	case relY > 2.0/3:
		return ZoneAfter
	case t.IsContainer:
		return ZoneInside
	case relY < 0.5:
		return ZoneBefore
	default:
		return ZoneAfter
	}
}
