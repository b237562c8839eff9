package store

import (
	"context"
	"sync"

	"github.com/slotboard/slotboard/pkg/observability"
)

// Invalidator tells other rendering contexts that a document changed.
// Messages carry only the document key; receivers reload from the store.
// Delivery is fire-and-forget with no ordering guarantee.
type Invalidator interface {
	// Broadcast publishes an invalidation for the document key.
	Broadcast(ctx context.Context, key string) error

	// Subscribe registers fn for incoming invalidations and returns an
	// unsubscribe function.
	Subscribe(ctx context.Context, fn func(key string)) (func(), error)

	// Close tears down the transport.
	Close() error
}

// Bus is the in-process Invalidator for single-process setups and tests.
type Bus struct {
	mu   sync.Mutex
	subs map[int]func(string)
	next int
}

// NewBus creates an empty in-process invalidation bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(string))}
}

func (b *Bus) Broadcast(ctx context.Context, key string) error {
	observability.Store().InvalidationBroadcast(ctx, key)

	b.mu.Lock()
	fns := make([]func(string), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return nil
}

func (b *Bus) Subscribe(_ context.Context, fn func(key string)) (func(), error) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}

func (b *Bus) Close() error {
	b.mu.Lock()
	b.subs = make(map[int]func(string))
	b.mu.Unlock()
	return nil
}

var _ Invalidator = (*Bus)(nil)
