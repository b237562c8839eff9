// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about editor gestures, mutations,
// renders, and document persistence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Editor().GestureStarted("drag", slotID)
//	// ... run the gesture ...
//	observability.Editor().GestureEnded("drag", slotID, committed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the edit surface: gesture lifecycle,
// drop classification, and applied mutations.
type EditorHooks interface {
	// Gesture events
	GestureStarted(kind, slotID string)
	GestureEnded(kind, slotID string, committed bool)

	// DropClassified records a drag classification result.
	DropClassified(draggedID, targetID, zone string)

	// MutationApplied records a committed tree mutation.
	MutationApplied(op, slotID string, err error)

	// RenderCompleted records a finished tree render.
	RenderCompleted(mode string, slotCount int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document persistence.
type StoreHooks interface {
	// SaveScheduled records a document entering the debounce window.
	SaveScheduled(key string)

	// SaveFlushed records a completed (or failed) write.
	SaveFlushed(ctx context.Context, key string, duration time.Duration, err error)

	// InvalidationBroadcast records an invalidation message going out.
	InvalidationBroadcast(ctx context.Context, key string)

	// DocumentLoaded records a read, hit false meaning not found.
	DocumentLoaded(ctx context.Context, key string, hit bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) GestureStarted(string, string)         {}
func (NoopEditorHooks) GestureEnded(string, string, bool)     {}
func (NoopEditorHooks) DropClassified(string, string, string) {}
func (NoopEditorHooks) MutationApplied(string, string, error) {}
func (NoopEditorHooks) RenderCompleted(string, int)           {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) SaveScheduled(string)                                      {}
func (NoopStoreHooks) SaveFlushed(context.Context, string, time.Duration, error) {}
func (NoopStoreHooks) InvalidationBroadcast(context.Context, string)             {}
func (NoopStoreHooks) DocumentLoaded(context.Context, string, bool)              {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editing.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any persistence.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	storeHooks = NoopStoreHooks{}
}
