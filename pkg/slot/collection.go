package slot

import (
	"slices"
)

// Collection is the full slot tree for one configuration document, keyed by
// slot ID. The map itself carries no ordering; sibling order is derived from
// grid coordinates by the geometry package.
type Collection map[string]Slot

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for id, s := range c {
		out[id] = s.Clone()
	}
	return out
}

// Roots returns the IDs of slots without a parent, sorted for determinism.
func (c Collection) Roots() []string {
	var ids []string
	for id, s := range c {
		if s.ParentID == "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ChildIDs returns the IDs of direct children of parentID, sorted by ID.
// Use geometry.Resolver for grid-ordered children.
func (c Collection) ChildIDs(parentID string) []string {
	var ids []string
	for id, s := range c {
		if s.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Ancestors returns the chain of ancestor IDs of id, nearest first.
// The walk stops if a cycle or a missing parent is encountered.
func (c Collection) Ancestors(id string) []string {
	var chain []string
	seen := map[string]bool{id: true}
	cur, ok := c[id]
	for ok && cur.ParentID != "" {
		if seen[cur.ParentID] {
			break
		}
		seen[cur.ParentID] = true
		chain = append(chain, cur.ParentID)
		cur, ok = c[cur.ParentID]
	}
	return chain
}

// IsAncestor reports whether ancestorID appears in id's ancestor chain.
func (c Collection) IsAncestor(ancestorID, id string) bool {
	for _, a := range c.Ancestors(id) {
		if a == ancestorID {
			return true
		}
	}
	return false
}

// Descendants returns every slot ID in the subtree rooted at id, excluding
// id itself. Order is breadth-first with ID-sorted siblings.
func (c Collection) Descendants(id string) []string {
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children := c.ChildIDs(cur)
		out = append(out, children...)
		queue = append(queue, children...)
	}
	return out
}
