// Package store persists layout documents and fans out invalidations.
//
// A Document is one page configuration: the slot collection for a (store,
// page type) pair. Backends implement the Store interface; the Syncer
// debounces editor mutations in front of any backend so a burst of edits
// becomes one write. Invalidators tell other contexts that a document
// changed; they carry only the key, never the data.
package store

import (
	"time"

	"github.com/slotboard/slotboard/pkg/slot"
)

// Document is one persisted page configuration.
type Document struct {
	Store     string          `json:"store" bson:"store"`
	PageType  string          `json:"page_type" bson:"page_type"`
	Slots     slot.Collection `json:"slots" bson:"slots"`
	Meta      map[string]any  `json:"meta,omitempty" bson:"meta,omitempty"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// Key identifies the document across backends and invalidation channels.
func (d Document) Key() string {
	return Key(d.Store, d.PageType)
}

// Key builds the canonical document key for a (store, page type) pair.
func Key(store, pageType string) string {
	return store + "/" + pageType
}

// Clone deep-copies the document so callers can mutate slots freely.
func (d Document) Clone() Document {
	out := d
	out.Slots = d.Slots.Clone()
	if d.Meta != nil {
		out.Meta = make(map[string]any, len(d.Meta))
		for k, v := range d.Meta {
			out.Meta[k] = v
		}
	}
	return out
}
