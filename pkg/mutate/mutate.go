// Package mutate applies structural operations to a slot collection:
// moving a slot to a classified drop zone, resizing, deleting, and adding.
//
// Every operation is pure: it takes the prior collection and returns a new
// one, leaving the input untouched. An operation either fully applies or
// returns an error with the input semantically unchanged; the tree
// invariants (acyclic parents, grid bounds, non-overlapping siblings) hold
// after every successful commit.
package mutate

import (
	"fmt"

	"github.com/slotboard/slotboard/pkg/editor"
	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/geometry"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Move applies a drop: the dragged slot takes its new parent and position
// from the target and zone, and the affected sibling groups are reflowed
// so no two siblings overlap.
//
//   - before/left: the dragged slot lands immediately before the target in
//     the target's row.
//   - after/right: immediately after the target.
//   - inside: the dragged slot becomes the target container's child at the
//     top-left.
//   - none, or a self target: no-op.
//
// Moving a container into its own subtree is rejected with a CYCLE error;
// the classifier normally filters this earlier, the mutator is the last
// line of defense.
func Move(c slot.Collection, draggedID, targetID string, zone editor.Zone, vp span.Viewport) (slot.Collection, error) {
	if zone == editor.ZoneNone || draggedID == targetID {
		return c, nil
	}

	dragged, ok := c[draggedID]
	if !ok {
		return nil, errors.New(errors.ErrCodeSlotNotFound, "dragged slot %s not found", draggedID)
	}
	target, ok := c[targetID]
	if !ok {
		return nil, errors.New(errors.ErrCodeSlotNotFound, "target slot %s not found", targetID)
	}
	if c.IsAncestor(draggedID, targetID) {
		return nil, errors.New(errors.ErrCodeCycle, "cannot move %s into its own subtree", draggedID)
	}

	out := c.Clone()
	oldParent := dragged.ParentID

	switch zone {
	case editor.ZoneInside:
		if !target.Type.IsContainer() {
			return nil, errors.New(errors.ErrCodeNotContainer, "slot %s cannot contain children", targetID)
		}
		dragged.ParentID = targetID
		dragged.Position = slot.Position{Row: 1, Col: 1}
		out[draggedID] = dragged
		reflow(out, targetID, vp, placement{id: draggedID, first: true})

	case editor.ZoneBefore, editor.ZoneLeft, editor.ZoneAfter, editor.ZoneRight:
		dragged.ParentID = target.ParentID
		dragged.Position = slot.Position{Row: target.Position.Row, Col: insertionCol(target, zone, vp)}
		out[draggedID] = dragged
		reflow(out, target.ParentID, vp, placement{
			id:     draggedID,
			anchor: targetID,
			after:  zone == editor.ZoneAfter || zone == editor.ZoneRight,
		})

	default:
		return c, nil
	}

	// A cross-container move leaves a hole behind; pack the old siblings.
	if oldParent != dragged.ParentID {
		reflow(out, oldParent, vp, placement{})
	}

	if err := slot.Validate(out, vp); err != nil {
		return nil, err
	}
	return out, nil
}

// insertionCol computes the dragged slot's target column before reflow:
// the target's own column for before/left, one past the target's span for
// after/right, clamped to the grid.
func insertionCol(target slot.Slot, zone editor.Zone, vp span.Viewport) int {
	col := target.Position.Col
	if zone == editor.ZoneAfter || zone == editor.ZoneRight {
		col = target.Position.Col + target.ColSpan.Resolve(vp)
	}
	if col < 1 {
		col = 1
	}
	if col > span.Columns {
		col = span.Columns
	}
	return col
}

// Resize rewrites a slot's size along one axis. Horizontal values are
// clamped to [1, 12] and written to the active viewport's span entry only;
// other viewports keep their stored values. Vertical values are clamped to
// limits.MinHeight and written to styles["height"] in pixels, independent
// of the grid.
func Resize(c slot.Collection, id string, axis editor.Axis, value float64, vp span.Viewport, limits Limits) (slot.Collection, error) {
	s, ok := c[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSlotNotFound, "slot %s not found", id)
	}

	out := c.Clone()
	s = out[id]

	if axis == editor.AxisVertical {
		h := value
		if min := limits.minHeight(); h < min {
			h = min
		}
		if s.Styles == nil {
			s.Styles = map[string]string{}
		}
		s.Styles["height"] = fmt.Sprintf("%dpx", int(h))
		out[id] = s
		return out, nil
	}

	w := int(value)
	if w < 1 {
		w = 1
	}
	if w > span.Columns {
		w = span.Columns
	}
	s.ColSpan = s.ColSpan.With(vp, w)
	out[id] = s

	// A wider slot can collide with its row neighbors; reflow the
	// sibling group to restore the no-overlap invariant.
	reflow(out, s.ParentID, vp, placement{})

	if err := slot.Validate(out, vp); err != nil {
		return nil, err
	}
	return out, nil
}

// Limits bounds resize commits.
type Limits struct {
	// MinHeight is the smallest committed pixel height. Zero means
	// DefaultMinHeight.
	MinHeight float64
}

func (l Limits) minHeight() float64 {
	if l.MinHeight > 0 {
		return l.MinHeight
	}
	return editor.DefaultMinHeight
}

// Delete removes a slot and cascade-deletes its whole subtree. Built-in
// slots (IsCustom false) are protected; callers must confirm destructively
// before invoking on a slot with descendants.
func Delete(c slot.Collection, id string) (slot.Collection, error) {
	s, ok := c[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSlotNotFound, "slot %s not found", id)
	}
	if !s.IsCustom {
		return nil, errors.New(errors.ErrCodeProtectedSlot, "slot %s is built-in and cannot be deleted", id)
	}

	out := c.Clone()
	delete(out, id)
	for _, d := range c.Descendants(id) {
		delete(out, d)
	}
	return out, nil
}

// Add creates a fresh user slot under parentID (or at the root for "")
// and appends it as the last sibling: a new row below the current ones,
// full width.
func Add(c slot.Collection, t slot.Type, parentID string, vp span.Viewport) (slot.Collection, slot.Slot, error) {
	if !t.Valid() {
		return nil, slot.Slot{}, errors.New(errors.ErrCodeInvalidSlot, "unknown slot type %q", t)
	}
	if parentID != "" {
		parent, ok := c[parentID]
		if !ok {
			return nil, slot.Slot{}, errors.New(errors.ErrCodeSlotNotFound, "parent %s not found", parentID)
		}
		if !parent.Type.IsContainer() {
			return nil, slot.Slot{}, errors.New(errors.ErrCodeNotContainer, "slot %s cannot contain children", parentID)
		}
	}

	out := c.Clone()
	s := slot.New(t, parentID)

	lastRow := 0
	for _, sib := range out {
		if sib.ParentID == parentID && sib.Position.Row > lastRow {
			lastRow = sib.Position.Row
		}
	}
	s.Position = slot.Position{Row: lastRow + 1, Col: 1}
	out[s.ID] = s

	if err := slot.Validate(out, vp); err != nil {
		return nil, slot.Slot{}, err
	}
	return out, s, nil
}

// =============================================================================
// Sibling reflow
// =============================================================================

// placement pins the moved slot's position in the reflow order relative to
// an anchor sibling. The zero value means "keep geometric order".
type placement struct {
	id     string // moved slot, or ""
	anchor string // target sibling it lands next to
	after  bool   // after the anchor instead of before
	first  bool   // head of the group (inside drops)
}

// reflow normalizes the sibling group under parentID: siblings are packed
// row by row in their resolved order, columns assigned sequentially, and a
// slot that no longer fits its row wraps to a fresh row below. Row numbers
// come out consecutive starting at 1.
func reflow(c slot.Collection, parentID string, vp span.Viewport, pin placement) {
	r := geometry.Resolver{Viewport: vp, IncludeHidden: true}
	ordered := r.OrderedIDs(c, parentID)
	ordered = applyPin(ordered, pin)

	// Band boundaries follow the pre-reflow row values so intentional
	// multi-row layouts survive the pass.
	row, col := 0, 1
	prevBand := -1
	for _, id := range ordered {
		s := c[id]
		w := s.ColSpan.Resolve(vp)

		band := s.Position.Row
		if band != prevBand || row == 0 {
			row++
			col = 1
			prevBand = band
		}
		if col+w-1 > span.Columns {
			row++
			col = 1
		}
		s.Position = slot.Position{Row: row, Col: col}
		c[id] = s
		col += w
	}
}

// applyPin moves pin.id next to pin.anchor in the ordered ID list. Both
// slots sharing a column value would otherwise tie, and the tie-break by
// map key must not decide a user's drop.
func applyPin(ordered []string, pin placement) []string {
	if pin.id == "" || (pin.anchor == "" && !pin.first) || pin.id == pin.anchor {
		return ordered
	}

	without := make([]string, 0, len(ordered))
	for _, id := range ordered {
		if id != pin.id {
			without = append(without, id)
		}
	}

	if pin.first {
		return append([]string{pin.id}, without...)
	}

	out := make([]string, 0, len(ordered))
	inserted := false
	for _, id := range without {
		if id == pin.anchor && !pin.after {
			out = append(out, pin.id)
			inserted = true
		}
		out = append(out, id)
		if id == pin.anchor && pin.after {
			out = append(out, pin.id)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, pin.id)
	}
	return out
}
