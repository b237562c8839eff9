package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/slotboard/slotboard/pkg/slot"
)

// countingStore wraps a Store and records every Put.
type countingStore struct {
	Store
	mu   sync.Mutex
	puts []Document
}

func (c *countingStore) Put(ctx context.Context, doc Document) error {
	c.mu.Lock()
	c.puts = append(c.puts, doc)
	c.mu.Unlock()
	return c.Store.Put(ctx, doc)
}

func (c *countingStore) snapshot() []Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Document(nil), c.puts...)
}

func docWithContent(content string) Document {
	return Document{
		Store:    "alpha",
		PageType: "product",
		Slots: slot.Collection{
			"a": {ID: "a", Type: slot.TypeText, Content: content, IsCustom: true},
		},
	}
}

func TestSyncerCollapsesBurstIntoOneWrite(t *testing.T) {
	backend := &countingStore{Store: NewMemory()}
	s := NewSyncer(backend, WithDebounce(50*time.Millisecond))

	// Five mutations inside one window must produce exactly one write,
	// carrying the fifth state.
	for i := 1; i <= 5; i++ {
		s.Schedule(docWithContent(fmt.Sprintf("v%d", i)))
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(backend.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	puts := backend.snapshot()
	if len(puts) != 1 {
		t.Fatalf("writes = %d, want 1", len(puts))
	}
	if got := puts[0].Slots["a"].Content; got != "v5" {
		t.Errorf("written content = %q, want the latest state v5", got)
	}
}

func TestSyncerCloseFlushesPending(t *testing.T) {
	backend := &countingStore{Store: NewMemory()}
	s := NewSyncer(backend, WithDebounce(time.Hour))

	s.Schedule(docWithContent("draft"))
	s.Close(context.Background())

	puts := backend.snapshot()
	if len(puts) != 1 {
		t.Fatalf("writes after close = %d, want 1", len(puts))
	}

	// Scheduling after close is dropped.
	s.Schedule(docWithContent("late"))
	if len(backend.snapshot()) != 1 {
		t.Error("schedule after close must be a no-op")
	}
}

func TestSyncerIndependentKeys(t *testing.T) {
	backend := &countingStore{Store: NewMemory()}
	s := NewSyncer(backend, WithDebounce(30*time.Millisecond))

	a := docWithContent("a")
	b := docWithContent("b")
	b.PageType = "category"

	s.Schedule(a)
	s.Schedule(b)
	s.Close(context.Background())

	if got := len(backend.snapshot()); got != 2 {
		t.Errorf("writes = %d, want one per document key", got)
	}
}

func TestSyncerBroadcastsInvalidationOnFlush(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var mu sync.Mutex
	var keys []string
	unsubscribe, err := bus.Subscribe(context.Background(), func(key string) {
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer unsubscribe()

	s := NewSyncer(NewMemory(), WithDebounce(time.Hour), WithInvalidator(bus))
	doc := docWithContent("x")
	s.Schedule(doc)
	s.Close(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 1 {
		t.Fatalf("invalidations = %v, want exactly one", keys)
	}
	if keys[0] != doc.Key() {
		t.Errorf("invalidated key = %q, want %q", keys[0], doc.Key())
	}
}

func TestSyncerFailedWriteDoesNotBroadcast(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var mu sync.Mutex
	var keys []string
	unsubscribe, err := bus.Subscribe(context.Background(), func(key string) {
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	defer unsubscribe()

	s := NewSyncer(failingStore{}, WithDebounce(time.Hour), WithInvalidator(bus))
	s.Schedule(docWithContent("x"))
	s.Close(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 0 {
		t.Errorf("invalidations after failed write = %v, want none", keys)
	}
}

func TestSyncerReportsFailures(t *testing.T) {
	var statuses []Status
	var mu sync.Mutex

	s := NewSyncer(failingStore{}, WithDebounce(time.Hour), WithStatusFunc(func(st Status) {
		mu.Lock()
		statuses = append(statuses, st)
		mu.Unlock()
	}))

	s.Schedule(docWithContent("x"))
	s.Close(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(statuses) != 2 {
		t.Fatalf("statuses = %+v, want scheduled then failed", statuses)
	}
	if statuses[0].State != SaveScheduled {
		t.Errorf("first status = %s, want scheduled", statuses[0].State)
	}
	if statuses[1].State != SaveFailed || statuses[1].Err == nil {
		t.Errorf("second status = %+v, want failed with error", statuses[1])
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string, string) (Document, error) {
	return Document{}, ErrNotFound
}
func (failingStore) Put(context.Context, Document) error { return fmt.Errorf("disk full") }
func (failingStore) PatchStyles(context.Context, string, string, string, map[string]string) error {
	return nil
}
func (failingStore) Delete(context.Context, string, string) error { return nil }
func (failingStore) Close(context.Context) error                  { return nil }
