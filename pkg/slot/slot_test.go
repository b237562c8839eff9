package slot

import (
	"encoding/json"
	"testing"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// buildTree creates a small valid collection:
//
//	root (container)
//	├── a (text, row 1 col 1, span 6)
//	├── b (button, row 1 col 7, span 6)
//	└── inner (grid, row 2 col 1, span 12)
//	    └── c (image, row 1 col 1, span 12)
func buildTree() Collection {
	return Collection{
		"root":  {ID: "root", Type: TypeContainer, Position: Position{Row: 1, Col: 1}, ColSpan: span.Of(12)},
		"a":     {ID: "a", ParentID: "root", Type: TypeText, Position: Position{Row: 1, Col: 1}, ColSpan: span.Of(6)},
		"b":     {ID: "b", ParentID: "root", Type: TypeButton, Position: Position{Row: 1, Col: 7}, ColSpan: span.Of(6)},
		"inner": {ID: "inner", ParentID: "root", Type: TypeGrid, Position: Position{Row: 2, Col: 1}, ColSpan: span.Of(12)},
		"c":     {ID: "c", ParentID: "inner", Type: TypeImage, Position: Position{Row: 1, Col: 1}, ColSpan: span.Of(12)},
	}
}

func TestValidateOK(t *testing.T) {
	if err := Validate(buildTree(), span.ViewportDesktop); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Collection)
		code   errors.Code
	}{
		{
			"missing parent",
			func(c Collection) {
				s := c["a"]
				s.ParentID = "ghost"
				c["a"] = s
			},
			errors.ErrCodeInvalidParent,
		},
		{
			"leaf parent",
			func(c Collection) {
				s := c["c"]
				s.ParentID = "a"
				c["c"] = s
			},
			errors.ErrCodeNotContainer,
		},
		{
			"cycle",
			func(c Collection) {
				root := c["root"]
				root.ParentID = "inner"
				c["root"] = root
			},
			errors.ErrCodeCycle,
		},
		{
			"span exceeds grid",
			func(c Collection) {
				s := c["b"]
				s.Position.Col = 10
				c["b"] = s
			},
			errors.ErrCodeInvalidSpan,
		},
		{
			"sibling overlap",
			func(c Collection) {
				s := c["b"]
				s.Position.Col = 4
				c["b"] = s
			},
			errors.ErrCodeInvalidSpan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildTree()
			tt.mutate(c)
			err := Validate(c, span.ViewportDesktop)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestAncestorsAndDescendants(t *testing.T) {
	c := buildTree()

	got := c.Ancestors("c")
	want := []string{"inner", "root"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Ancestors(c) = %v, want %v", got, want)
	}

	if !c.IsAncestor("root", "c") {
		t.Error("root should be an ancestor of c")
	}
	if c.IsAncestor("c", "root") {
		t.Error("c must not be an ancestor of root")
	}

	desc := c.Descendants("root")
	if len(desc) != 4 {
		t.Errorf("Descendants(root) = %v, want 4 entries", desc)
	}
}

func TestVisibleIn(t *testing.T) {
	s := Slot{ID: "x", Type: TypeText}
	if !s.VisibleIn("checkout") {
		t.Error("empty view mode set must mean always visible")
	}

	s.ViewModes = []string{"cart", "checkout"}
	if !s.VisibleIn("cart") {
		t.Error("listed context should be visible")
	}
	if s.VisibleIn("home") {
		t.Error("unlisted context should be hidden")
	}
}

func TestNewSlotDefaults(t *testing.T) {
	s := New(TypeText, "root")
	if s.ID == "" {
		t.Error("New must assign an id")
	}
	if got := s.ColSpan.Resolve(span.ViewportDesktop); got != span.Full {
		t.Errorf("default span = %d, want %d", got, span.Full)
	}
	if !s.IsCustom {
		t.Error("user-added slots must be deletable")
	}
	if !s.Position.IsZero() {
		t.Error("new slots start without explicit coordinates")
	}
}

func TestCloneIsolation(t *testing.T) {
	c := buildTree()
	a := c["a"]
	a.Styles = map[string]string{"color": "red"}
	c["a"] = a

	clone := c.Clone()
	clone["a"].Styles["color"] = "blue"

	if c["a"].Styles["color"] != "red" {
		t.Error("Clone must not share style maps")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c := buildTree()
	s := c["a"]
	s.ColSpan = span.FromRaw(map[string]any{"desktop": "col-span-6", "mobile": float64(12)})
	s.Metadata = map[string]any{MetaNonEditable: true}
	c["a"] = s

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Collection
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := back["a"].ColSpan.Resolve(span.ViewportDesktop); got != 6 {
		t.Errorf("span after round trip = %d, want 6", got)
	}
	if got := back["a"].ColSpan.Resolve(span.ViewportMobile); got != 12 {
		t.Errorf("mobile span after round trip = %d, want 12", got)
	}
	if back["a"].Editable() {
		t.Error("nonEditable metadata lost in round trip")
	}
}
