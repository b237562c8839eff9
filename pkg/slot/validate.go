package slot

import (
	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Validate checks the collection invariants for the given viewport:
// acyclic parent chains, parents that exist and are containers, IDs that
// match map keys, column bounds, and non-overlapping siblings.
//
// Sibling overlap is a commit-time invariant only; callers holding a
// transient drag preview must not validate it.
func Validate(c Collection, vp span.Viewport) error {
	for id, s := range c {
		if id == "" {
			return errors.New(errors.ErrCodeInvalidSlot, "empty slot id")
		}
		if s.ID != id {
			return errors.New(errors.ErrCodeInvalidSlot, "slot %s stored under key %s", s.ID, id)
		}
		if s.ParentID != "" {
			parent, ok := c[s.ParentID]
			if !ok {
				return errors.New(errors.ErrCodeInvalidParent, "slot %s references missing parent %s", id, s.ParentID)
			}
			if !parent.Type.IsContainer() {
				return errors.New(errors.ErrCodeNotContainer, "slot %s has non-container parent %s (%s)", id, s.ParentID, parent.Type)
			}
		}
		if err := checkAcyclic(c, id); err != nil {
			return err
		}
		if err := checkBounds(s, vp); err != nil {
			return err
		}
	}
	return checkSiblingOverlap(c, vp)
}

// checkAcyclic walks the parent chain from id looking for a repeat.
func checkAcyclic(c Collection, id string) error {
	seen := map[string]bool{id: true}
	cur := c[id]
	for cur.ParentID != "" {
		if seen[cur.ParentID] {
			return errors.New(errors.ErrCodeCycle, "slot %s is part of a parent cycle", id)
		}
		seen[cur.ParentID] = true
		next, ok := c[cur.ParentID]
		if !ok {
			return nil // missing parent reported elsewhere
		}
		cur = next
	}
	return nil
}

// checkBounds verifies 1 ≤ col and col+span−1 ≤ 12 for the viewport.
// Slots without explicit coordinates are exempt until they are placed.
func checkBounds(s Slot, vp span.Viewport) error {
	if s.Position.IsZero() {
		return nil
	}
	if s.Position.Col < 1 || s.Position.Row < 1 {
		return errors.New(errors.ErrCodeInvalidSlot, "slot %s has out-of-range position %+v", s.ID, s.Position)
	}
	w := s.ColSpan.Resolve(vp)
	if s.Position.Col+w-1 > span.Columns {
		return errors.New(errors.ErrCodeInvalidSpan,
			"slot %s exceeds the grid: col %d + span %d - 1 > %d", s.ID, s.Position.Col, w, span.Columns)
	}
	return nil
}

// checkSiblingOverlap verifies that no two siblings on the same row overlap
// horizontally for the viewport.
func checkSiblingOverlap(c Collection, vp span.Viewport) error {
	type interval struct {
		id       string
		from, to int // inclusive column range
	}
	rows := make(map[string]map[int][]interval)

	for id, s := range c {
		if s.Position.IsZero() {
			continue
		}
		byRow, ok := rows[s.ParentID]
		if !ok {
			byRow = make(map[int][]interval)
			rows[s.ParentID] = byRow
		}
		w := s.ColSpan.Resolve(vp)
		cur := interval{id: id, from: s.Position.Col, to: s.Position.Col + w - 1}
		for _, other := range byRow[s.Position.Row] {
			if cur.from <= other.to && other.from <= cur.to {
				return errors.New(errors.ErrCodeInvalidSpan,
					"slots %s and %s overlap on row %d", other.id, id, s.Position.Row)
			}
		}
		byRow[s.Position.Row] = append(byRow[s.Position.Row], cur)
	}
	return nil
}
