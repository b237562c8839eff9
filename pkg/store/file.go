package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/observability"
)

// FileStore keeps each document as a JSON file in a directory, the
// zero-infrastructure backend for local editing and the seed command.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed store.
// If baseDir is empty, defaults to ~/.config/slotboard/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "slotboard", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// docPath flattens the document key into one filename; keys never contain
// path separators beyond the single store/pagetype divider.
func (s *FileStore) docPath(storeID, pageType string) string {
	name := sanitize(storeID) + "__" + sanitize(pageType) + ".json"
	return filepath.Join(s.baseDir, name)
}

func sanitize(part string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, part)
}

func (s *FileStore) Get(ctx context.Context, storeID, pageType string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(storeID, pageType))
	if os.IsNotExist(err) {
		observability.Store().DocumentLoaded(ctx, Key(storeID, pageType), false)
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeStorage, err, "read document file")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeStorage, err, "parse document file")
	}
	observability.Store().DocumentLoaded(ctx, doc.Key(), true)
	return doc, nil
}

func (s *FileStore) Put(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "marshal document")
	}
	if err := os.WriteFile(s.docPath(doc.Store, doc.PageType), data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write document file")
	}
	return nil
}

func (s *FileStore) PatchStyles(ctx context.Context, storeID, pageType, slotID string, styles map[string]string) error {
	doc, err := s.Get(ctx, storeID, pageType)
	if err != nil {
		return err
	}
	sl, ok := doc.Slots[slotID]
	if !ok {
		return errors.New(errors.ErrCodeSlotNotFound, "slot %s not in document %s", slotID, doc.Key())
	}
	if sl.Styles == nil {
		sl.Styles = make(map[string]string, len(styles))
	}
	for k, v := range styles {
		sl.Styles[k] = v
	}
	doc.Slots[slotID] = sl
	return s.Put(ctx, doc)
}

func (s *FileStore) Delete(_ context.Context, storeID, pageType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.docPath(storeID, pageType))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
