// Package slot defines the data model for the layout tree.
//
// A [Slot] is one node in an ordered, nested grid tree: containers hold
// children, leaves carry content. Slots are pure data; all behavior lives in
// the packages that consume them (geometry, mutate, render).
//
// The whole tree for one page is a [Collection], a map from slot ID to
// slot. Invariants over a collection are checked by [Validate]:
//
//  1. IDs are unique (structural, since Collection is a map).
//  2. The parent relation is acyclic and every parent exists.
//  3. Column coordinates fit the 12-unit grid and siblings never overlap.
//  4. Only container types may be a parent.
//  5. No slot references a deleted parent.
//
// Mutations never edit a collection in place; see the mutate package.
package slot

import (
	"maps"

	"github.com/google/uuid"

	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Type identifies the kind of a slot. The set is closed: unknown types are
// rendered by a generic fallback but never created by the editor.
type Type string

// The closed slot type set.
const (
	TypeContainer Type = "container"
	TypeGrid      Type = "grid"
	TypeFlex      Type = "flex"
	TypeText      Type = "text"
	TypeButton    Type = "button"
	TypeLink      Type = "link"
	TypeImage     Type = "image"
	TypeInput     Type = "input"
	TypeWidget    Type = "widget"
)

// Types lists every member of the closed type set.
var Types = []Type{
	TypeContainer, TypeGrid, TypeFlex,
	TypeText, TypeButton, TypeLink, TypeImage, TypeInput, TypeWidget,
}

// Valid reports whether t is a member of the closed type set.
func (t Type) Valid() bool {
	switch t {
	case TypeContainer, TypeGrid, TypeFlex,
		TypeText, TypeButton, TypeLink, TypeImage, TypeInput, TypeWidget:
		return true
	}
	return false
}

// IsContainer reports whether slots of this type may have children.
func (t Type) IsContainer() bool {
	switch t {
	case TypeContainer, TypeGrid, TypeFlex:
		return true
	}
	return false
}

// Position is a slot's 1-based grid coordinate within its parent.
// The zero value means "no explicit coordinates": such slots sort after
// coordinated siblings.
type Position struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// IsZero reports whether the slot has no explicit coordinates.
func (p Position) IsZero() bool {
	return p.Row == 0 && p.Col == 0
}

// Well-known metadata keys. Metadata is otherwise a free-form bag the
// engine passes through without interpretation.
const (
	// MetaNonEditable marks a slot whose content may not be edited.
	MetaNonEditable = "nonEditable"

	// MetaDisableResize marks a slot that may not be resized.
	MetaDisableResize = "disableResize"

	// MetaWidget names the widget renderer for TypeWidget slots.
	MetaWidget = "widget"
)

// Slot is one node in the layout tree.
type Slot struct {
	ID       string `json:"id" bson:"id"`
	ParentID string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Type     Type   `json:"type" bson:"type"`

	Position Position  `json:"position" bson:"position"`
	ColSpan  span.Span `json:"col_span,omitempty" bson:"col_span,omitempty"`
	RowSpan  int       `json:"row_span,omitempty" bson:"row_span,omitempty"`

	Content   string            `json:"content,omitempty" bson:"content,omitempty"`
	Styles    map[string]string `json:"styles,omitempty" bson:"styles,omitempty"`
	ClassName string            `json:"class_name,omitempty" bson:"class_name,omitempty"`
	Metadata  map[string]any    `json:"metadata,omitempty" bson:"metadata,omitempty"`

	// ViewModes lists the view contexts in which the slot is visible.
	// Empty means always visible.
	ViewModes []string `json:"view_modes,omitempty" bson:"view_modes,omitempty"`

	// IsCustom marks user-created slots. Built-in slots cannot be deleted.
	IsCustom bool `json:"is_custom,omitempty" bson:"is_custom,omitempty"`
}

// New creates a user-added slot with a fresh ID, full width, and no
// coordinates (it sorts after its coordinated siblings until placed).
func New(t Type, parentID string) Slot {
	return Slot{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Type:     t,
		ColSpan:  span.Of(span.Full),
		RowSpan:  1,
		IsCustom: true,
	}
}

// VisibleIn reports whether the slot is rendered for the given view
// context. An empty ViewModes set means always visible.
func (s Slot) VisibleIn(viewContext string) bool {
	if len(s.ViewModes) == 0 {
		return true
	}
	for _, m := range s.ViewModes {
		if m == viewContext {
			return true
		}
	}
	return false
}

// Editable reports whether the slot's content may be edited.
func (s Slot) Editable() bool {
	v, ok := s.Metadata[MetaNonEditable].(bool)
	return !ok || !v
}

// Resizable reports whether the slot may be resized.
func (s Slot) Resizable() bool {
	v, ok := s.Metadata[MetaDisableResize].(bool)
	return !ok || !v
}

// Widget returns the widget renderer name for TypeWidget slots, or "".
func (s Slot) Widget() string {
	name, _ := s.Metadata[MetaWidget].(string)
	return name
}

// Clone returns a deep-enough copy: maps and slices are copied, the span's
// raw value is shared (it is treated as immutable).
func (s Slot) Clone() Slot {
	out := s
	if s.Styles != nil {
		out.Styles = maps.Clone(s.Styles)
	}
	if s.Metadata != nil {
		out.Metadata = maps.Clone(s.Metadata)
	}
	if s.ViewModes != nil {
		out.ViewModes = append([]string(nil), s.ViewModes...)
	}
	return out
}
