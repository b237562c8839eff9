package geometry

import (
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Rect is an axis-aligned rectangle in surface coordinates. The edit
// surface decides the unit (pixels for a browser frame, cells for a
// terminal); all geometry code only uses relative positions within rects.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// RelX returns the point's horizontal position as a fraction of the
// rectangle's width, clamped to [0, 1].
func (r Rect) RelX(x float64) float64 {
	if r.W <= 0 {
		return 0
	}
	return clamp01((x - r.X) / r.W)
}

// RelY returns the point's vertical position as a fraction of the
// rectangle's height, clamped to [0, 1].
func (r Rect) RelY(y float64) float64 {
	if r.H <= 0 {
		return 0
	}
	return clamp01((y - r.Y) / r.H)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Placed is a slot's computed rectangle on the surface, with its nesting
// depth for topmost-wins hit testing.
type Placed struct {
	ID    string
	Rect  Rect
	Depth int
}

// Layout computes rectangles for every visible slot in the subtree of
// parentID, laying children on a 12-unit grid within the parent rect.
// Rows are stacked top to bottom; each row is rowHeight tall multiplied by
// the slot's RowSpan (minimum 1). Container rects grow to hold their
// children.
//
// The result is ordered parents-before-children, so iterating backwards
// finds the topmost slot under a point.
func (r Resolver) Layout(c slot.Collection, parentID string, frame Rect, rowHeight float64) []Placed {
	var out []Placed
	r.layoutInto(c, parentID, frame, rowHeight, 0, &out)
	return out
}

// layoutInto appends placements for the children of parentID and recurses
// into containers. Returns the total height consumed.
func (r Resolver) layoutInto(c slot.Collection, parentID string, frame Rect, rowHeight float64, depth int, out *[]Placed) float64 {
	children := r.Children(c, parentID)
	if len(children) == 0 {
		return 0
	}

	// Group consecutive children sharing a row. Unplaced slots (zero
	// position) each occupy their own trailing row.
	var groups [][]Child
	prevRow := -1
	for i, ch := range children {
		pos := ch.Slot.Position
		if i == 0 || pos.IsZero() || pos.Row != prevRow {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], ch)
		if pos.IsZero() {
			prevRow = -1
		} else {
			prevRow = pos.Row
		}
	}

	unit := frame.W / float64(span.Columns)
	y := frame.Y

	for _, group := range groups {
		var groupH float64
		for _, ch := range group {
			col := ch.Slot.Position.Col
			if col < 1 {
				col = 1
			}
			rect := Rect{
				X: frame.X + float64(col-1)*unit,
				Y: y,
				W: float64(ch.Span) * unit,
				H: rowHeight * float64(max(1, ch.Slot.RowSpan)),
			}

			idx := len(*out)
			*out = append(*out, Placed{ID: ch.Slot.ID, Rect: rect, Depth: depth})

			if ch.Slot.Type.IsContainer() {
				used := r.layoutInto(c, ch.Slot.ID, rect, rowHeight, depth+1, out)
				if used > rect.H {
					rect.H = used
					(*out)[idx].Rect = rect
				}
			}

			if rect.H > groupH {
				groupH = rect.H
			}
		}
		y += groupH
	}
	return y - frame.Y
}

// HitTest returns the topmost placement containing the point, or nil.
func HitTest(placed []Placed, x, y float64) *Placed {
	for i := len(placed) - 1; i >= 0; i-- {
		if placed[i].Rect.Contains(x, y) {
			p := placed[i]
			return &p
		}
	}
	return nil
}
