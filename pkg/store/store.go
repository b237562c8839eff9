package store

import (
	"context"

	"github.com/slotboard/slotboard/pkg/errors"
)

// ErrNotFound is returned by Get for documents that were never written.
var ErrNotFound = errors.New(errors.ErrCodeDocumentNotFound, "document not found")

// Store persists layout documents. Put is a full upsert and the normal
// write path; PatchStyles exists for style-only edits that must not race
// a concurrent full save into clobbering unrelated slots.
type Store interface {
	// Get loads a document, ErrNotFound if it does not exist.
	Get(ctx context.Context, storeID, pageType string) (Document, error)

	// Put writes the full document, creating or replacing it.
	Put(ctx context.Context, doc Document) error

	// PatchStyles merges style entries into one slot of a stored document.
	PatchStyles(ctx context.Context, storeID, pageType, slotID string, styles map[string]string) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, storeID, pageType string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
