package store

import (
	"context"
	"sync"
	"time"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/observability"
)

// Memory is an in-process store for tests and the default editor setup.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]Document)}
}

func (m *Memory) Get(ctx context.Context, storeID, pageType string) (Document, error) {
	m.mu.RLock()
	doc, ok := m.docs[Key(storeID, pageType)]
	m.mu.RUnlock()

	observability.Store().DocumentLoaded(ctx, Key(storeID, pageType), ok)
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *Memory) Put(_ context.Context, doc Document) error {
	doc = doc.Clone()
	doc.UpdatedAt = time.Now().UTC()

	m.mu.Lock()
	m.docs[doc.Key()] = doc
	m.mu.Unlock()
	return nil
}

func (m *Memory) PatchStyles(_ context.Context, storeID, pageType, slotID string, styles map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[Key(storeID, pageType)]
	if !ok {
		return ErrNotFound
	}
	s, ok := doc.Slots[slotID]
	if !ok {
		return errors.New(errors.ErrCodeSlotNotFound, "slot %s not in document %s", slotID, doc.Key())
	}

	doc = doc.Clone()
	s = doc.Slots[slotID]
	if s.Styles == nil {
		s.Styles = make(map[string]string, len(styles))
	}
	for k, v := range styles {
		s.Styles[k] = v
	}
	doc.Slots[slotID] = s
	doc.UpdatedAt = time.Now().UTC()
	m.docs[doc.Key()] = doc
	return nil
}

func (m *Memory) Delete(_ context.Context, storeID, pageType string) error {
	m.mu.Lock()
	delete(m.docs, Key(storeID, pageType))
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close(context.Context) error { return nil }

var _ Store = (*Memory)(nil)
