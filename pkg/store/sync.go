package store

import (
	"context"
	"sync"
	"time"

	"github.com/slotboard/slotboard/pkg/observability"
)

// DefaultDebounce is the save window: edits arriving within it collapse
// into one write of the latest state.
const DefaultDebounce = 500 * time.Millisecond

// SaveState reports where a scheduled save currently is.
type SaveState string

const (
	SaveScheduled SaveState = "scheduled"
	SaveFlushed   SaveState = "flushed"
	SaveFailed    SaveState = "failed"
)

// Status is delivered to the status callback on every state change of a
// pending save.
type Status struct {
	Key   string
	State SaveState
	Err   error
}

// Syncer debounces document writes in front of a Store. Every Schedule
// replaces the pending state for that document's key and restarts the
// window; when the window elapses the latest state is written once.
// Last write wins, there is no merge. A failed write surfaces through the
// status callback and leaves the in-memory state authoritative; the next
// edit schedules a fresh attempt.
type Syncer struct {
	store       Store
	window      time.Duration
	onStatus    func(Status)
	invalidator Invalidator

	mu      sync.Mutex
	pending map[string]*pendingSave
	closed  bool
	wg      sync.WaitGroup
}

type pendingSave struct {
	doc   Document
	timer *time.Timer
}

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

// WithDebounce overrides the save window.
func WithDebounce(d time.Duration) SyncOption {
	return func(s *Syncer) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithStatusFunc installs a callback for save lifecycle events. The
// callback runs on the flush goroutine and must not block.
func WithStatusFunc(fn func(Status)) SyncOption {
	return func(s *Syncer) { s.onStatus = fn }
}

// WithInvalidator broadcasts the document key after every successful
// write, so other contexts holding the document can refetch it.
func WithInvalidator(inv Invalidator) SyncOption {
	return func(s *Syncer) { s.invalidator = inv }
}

// NewSyncer wraps a store with a debounced write path.
func NewSyncer(st Store, opts ...SyncOption) *Syncer {
	s := &Syncer{
		store:   st,
		window:  DefaultDebounce,
		pending: make(map[string]*pendingSave),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule queues a document for writing. The pending state for the key
// is replaced wholesale and the debounce window restarts.
func (s *Syncer) Schedule(doc Document) {
	key := doc.Key()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if p, ok := s.pending[key]; ok {
		p.doc = doc.Clone()
		p.timer.Reset(s.window)
		s.mu.Unlock()
		return
	}
	p := &pendingSave{doc: doc.Clone()}
	s.wg.Add(1)
	p.timer = time.AfterFunc(s.window, func() { s.flush(key) })
	s.pending[key] = p
	s.mu.Unlock()

	observability.Store().SaveScheduled(key)
	s.notify(Status{Key: key, State: SaveScheduled})
}

// flush writes the latest pending state for key. Runs on the timer
// goroutine.
func (s *Syncer) flush(key string) {
	defer s.wg.Done()

	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	doc := p.doc
	s.mu.Unlock()

	s.write(doc)
}

func (s *Syncer) write(doc Document) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	err := s.store.Put(ctx, doc)
	observability.Store().SaveFlushed(ctx, doc.Key(), time.Since(start), err)

	if err != nil {
		s.notify(Status{Key: doc.Key(), State: SaveFailed, Err: err})
		return
	}

	// Fire-and-forget: a failed broadcast never fails the save.
	if s.invalidator != nil {
		_ = s.invalidator.Broadcast(ctx, doc.Key())
	}
	s.notify(Status{Key: doc.Key(), State: SaveFlushed})
}

// Flush writes every pending document immediately.
func (s *Syncer) Flush(ctx context.Context) {
	s.mu.Lock()
	docs := make([]Document, 0, len(s.pending))
	for key, p := range s.pending {
		if p.timer.Stop() {
			s.wg.Done()
		}
		docs = append(docs, p.doc)
		delete(s.pending, key)
	}
	s.mu.Unlock()

	for _, doc := range docs {
		s.write(doc)
	}
}

// Close flushes all pending saves synchronously and rejects further
// scheduling.
func (s *Syncer) Close(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.Flush(ctx)
	s.wg.Wait()
}

func (s *Syncer) notify(st Status) {
	if s.onStatus != nil {
		s.onStatus(st)
	}
}
