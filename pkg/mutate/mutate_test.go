package mutate

import (
	"math/rand"
	"testing"

	"github.com/slotboard/slotboard/pkg/editor"
	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/geometry"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

const desktop = span.ViewportDesktop

// testTree builds:
//
//	root (container, 12)
//	├── A (text, row 1 col 1, span 4)
//	├── B (text, row 1 col 5, span 4)
//	└── box (container, row 2 col 1, span 12)
//	    └── C (image, row 1 col 1, span 12)
func testTree() slot.Collection {
	return slot.Collection{
		"root": {ID: "root", Type: slot.TypeContainer, Position: slot.Position{Row: 1, Col: 1}, ColSpan: span.Of(12), IsCustom: true},
		"A":    {ID: "A", ParentID: "root", Type: slot.TypeText, Position: slot.Position{Row: 1, Col: 1}, ColSpan: span.Of(4), IsCustom: true},
		"B":    {ID: "B", ParentID: "root", Type: slot.TypeText, Position: slot.Position{Row: 1, Col: 5}, ColSpan: span.Of(4), IsCustom: true},
		"box":  {ID: "box", ParentID: "root", Type: slot.TypeContainer, Position: slot.Position{Row: 2, Col: 1}, ColSpan: span.Of(12), IsCustom: true},
		"C":    {ID: "C", ParentID: "box", Type: slot.TypeImage, Position: slot.Position{Row: 1, Col: 1}, ColSpan: span.Of(12), IsCustom: true},
	}
}

func order(t *testing.T, c slot.Collection, parentID string) []string {
	t.Helper()
	return geometry.Resolver{Viewport: desktop}.OrderedIDs(c, parentID)
}

func TestMoveLeftReordersSiblings(t *testing.T) {
	// Spec example: moving B before A via the left zone yields [B, A, ...].
	c := testTree()

	out, err := Move(c, "B", "A", editor.ZoneLeft, desktop)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	got := order(t, out, "root")
	if got[0] != "B" || got[1] != "A" {
		t.Errorf("order after left drop = %v, want B before A", got)
	}

	// The input collection is untouched.
	if in := order(t, c, "root"); in[0] != "A" {
		t.Error("Move mutated its input")
	}

	if err := slot.Validate(out, desktop); err != nil {
		t.Errorf("invariants after move: %v", err)
	}
}

func TestMoveAfterPlacesBehindTarget(t *testing.T) {
	c := testTree()

	out, err := Move(c, "A", "B", editor.ZoneAfter, desktop)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	got := order(t, out, "root")
	if got[0] != "B" || got[1] != "A" {
		t.Errorf("order after drop = %v, want [B A box]", got)
	}
}

func TestMoveInsideContainer(t *testing.T) {
	c := testTree()

	out, err := Move(c, "A", "box", editor.ZoneInside, desktop)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	if out["A"].ParentID != "box" {
		t.Errorf("parent = %s, want box", out["A"].ParentID)
	}
	// The moved slot lands at the head of the container.
	got := order(t, out, "box")
	if got[0] != "A" {
		t.Errorf("box children = %v, want A first", got)
	}
	// The vacated row in the old parent is packed.
	if err := slot.Validate(out, desktop); err != nil {
		t.Errorf("invariants after move: %v", err)
	}
}

func TestMoveIntoLeafRejected(t *testing.T) {
	c := testTree()
	_, err := Move(c, "B", "A", editor.ZoneInside, desktop)
	if !errors.Is(err, errors.ErrCodeNotContainer) {
		t.Errorf("err = %v, want NOT_CONTAINER", err)
	}
}

func TestMoveCycleRejected(t *testing.T) {
	c := testTree()
	_, err := Move(c, "box", "C", editor.ZoneBefore, desktop)
	if !errors.Is(err, errors.ErrCodeCycle) {
		t.Errorf("err = %v, want CYCLE", err)
	}
}

func TestMoveSelfIsNoOp(t *testing.T) {
	c := testTree()
	out, err := Move(c, "A", "A", editor.ZoneBefore, desktop)
	if err != nil {
		t.Fatalf("self move: %v", err)
	}
	if got := order(t, out, "root"); got[0] != "A" {
		t.Errorf("self move changed order: %v", got)
	}
}

func TestMoveSequencesStayAcyclic(t *testing.T) {
	// Property: arbitrary move sequences never produce a parent cycle.
	c := testTree()
	ids := []string{"A", "B", "box", "C"}
	zones := []editor.Zone{editor.ZoneBefore, editor.ZoneAfter, editor.ZoneInside, editor.ZoneLeft, editor.ZoneRight}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		dragged := ids[rng.Intn(len(ids))]
		target := ids[rng.Intn(len(ids))]
		zone := zones[rng.Intn(len(zones))]

		out, err := Move(c, dragged, target, zone, desktop)
		if err != nil {
			continue // rejected moves leave c unchanged
		}
		if err := slot.Validate(out, desktop); err != nil {
			t.Fatalf("step %d (%s onto %s, %s): %v", i, dragged, target, zone, err)
		}
		c = out
	}
}

func TestResizeHorizontalClampsAndPreserves(t *testing.T) {
	c := testTree()
	s := c["A"]
	s.ColSpan = span.FromRaw(map[string]any{"desktop": float64(4), "mobile": float64(12)})
	c["A"] = s

	out, err := Resize(c, "A", editor.AxisHorizontal, 99, desktop, Limits{})
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}

	if got := out["A"].ColSpan.Resolve(desktop); got != span.Columns {
		t.Errorf("desktop span = %d, want clamp to %d", got, span.Columns)
	}
	// The mobile entry survives untouched.
	if got := out["A"].ColSpan.Resolve(span.ViewportMobile); got != 12 {
		t.Errorf("mobile span = %d, want 12", got)
	}
	if err := slot.Validate(out, desktop); err != nil {
		t.Errorf("invariants after resize: %v", err)
	}
}

func TestResizeVerticalWritesHeight(t *testing.T) {
	c := testTree()

	out, err := Resize(c, "A", editor.AxisVertical, 250, desktop, Limits{MinHeight: 40})
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := out["A"].Styles["height"]; got != "250px" {
		t.Errorf("height = %q, want 250px", got)
	}

	// Below the minimum clamps.
	out, err = Resize(c, "A", editor.AxisVertical, 3, desktop, Limits{MinHeight: 40})
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := out["A"].Styles["height"]; got != "40px" {
		t.Errorf("height = %q, want 40px", got)
	}
}

func TestDeleteCascades(t *testing.T) {
	c := testTree()

	out, err := Delete(c, "box")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := out["box"]; ok {
		t.Error("box still present")
	}
	if _, ok := out["C"]; ok {
		t.Error("descendant C must be cascade-deleted")
	}
	if _, ok := out["A"]; !ok {
		t.Error("unrelated slot removed")
	}
}

func TestDeleteProtectsBuiltins(t *testing.T) {
	c := testTree()
	s := c["A"]
	s.IsCustom = false
	c["A"] = s

	_, err := Delete(c, "A")
	if !errors.Is(err, errors.ErrCodeProtectedSlot) {
		t.Errorf("err = %v, want PROTECTED_SLOT", err)
	}
}

func TestAddAppendsAsLastSibling(t *testing.T) {
	c := testTree()

	out, added, err := Add(c, slot.TypeButton, "root", desktop)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ParentID != "root" {
		t.Errorf("parent = %s, want root", added.ParentID)
	}
	if got := added.ColSpan.Resolve(desktop); got != span.Full {
		t.Errorf("span = %d, want full width", got)
	}

	got := order(t, out, "root")
	if got[len(got)-1] != added.ID {
		t.Errorf("new slot must be the last sibling, got %v", got)
	}
	if err := slot.Validate(out, desktop); err != nil {
		t.Errorf("invariants after add: %v", err)
	}
}
