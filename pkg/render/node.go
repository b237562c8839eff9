// Package render turns a slot collection into a structural node tree and
// prints that tree to a surface (terminal boxes or HTML).
//
// The dispatcher walks the tree in geometry order and picks a renderer per
// slot from a registry keyed by slot type and widget name. Edit mode
// attaches overlay nodes (drag and resize affordances) as a separate layer
// on each node; stripping the overlays from an edit render yields exactly
// the display render, which is what keeps the edit surface honest.
package render

import (
	"sort"

	"github.com/slotboard/slotboard/pkg/slot"
)

// Node is one element of the rendered tree. Kind is the structural role
// ("page", "container", "text", ...), not necessarily the slot type that
// produced it.
type Node struct {
	Kind     string            `json:"kind"`
	SlotID   string            `json:"slot_id,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Styles   map[string]string `json:"styles,omitempty"`
	Content  string            `json:"content,omitempty"`
	Children []*Node           `json:"children,omitempty"`

	// Overlay holds edit-mode affordances composited over the node. It is
	// a sibling layer, never a wrapper: removing it must not change the
	// node's own geometry or children.
	Overlay *Node `json:"overlay,omitempty"`
}

// Clone deep-copies the node tree, overlays included.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:    n.Kind,
		SlotID:  n.SlotID,
		Content: n.Content,
		Overlay: n.Overlay.Clone(),
	}
	if n.Classes != nil {
		out.Classes = append([]string(nil), n.Classes...)
	}
	if n.Styles != nil {
		out.Styles = make(map[string]string, len(n.Styles))
		for k, v := range n.Styles {
			out.Styles[k] = v
		}
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// StripOverlays returns a deep copy of the tree with every overlay layer
// removed. Applied to an edit-mode render it produces the display-mode
// render of the same document.
func StripOverlays(n *Node) *Node {
	if n == nil {
		return nil
	}
	out := n.Clone()
	out.stripOverlays()
	return out
}

func (n *Node) stripOverlays() {
	n.Overlay = nil
	for _, c := range n.Children {
		c.stripOverlays()
	}
}

// sortedStyleKeys gives printers a deterministic style order.
func sortedStyleKeys(styles map[string]string) []string {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// overlayFor builds the edit affordance layer for a slot: a drag handle
// when the slot is editable and resize handles when resizing is allowed.
func overlayFor(s slot.Slot) *Node {
	if !s.Editable() {
		return nil
	}
	ov := &Node{Kind: "overlay", SlotID: s.ID, Classes: []string{"drag-handle"}}
	if s.Resizable() {
		ov.Children = append(ov.Children,
			&Node{Kind: "handle", SlotID: s.ID, Classes: []string{"resize-e"}},
			&Node{Kind: "handle", SlotID: s.ID, Classes: []string{"resize-s"}},
		)
	}
	return ov
}
