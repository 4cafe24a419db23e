package cache

import (
	"context"
	"sync"

	"jobpilot/aggregator/internal/model"
)

// MemoryStore keeps the entry in process memory. Used by the CLI and tests.
type MemoryStore struct {
	mu    sync.Mutex
	entry *model.CacheEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (model.CacheEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return model.CacheEntry{}, false, nil
	}
	return *s.entry, true, nil
}

func (s *MemoryStore) Save(_ context.Context, entry model.CacheEntry) error {
	s.mu.Lock()
	s.entry = &entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(context.Context) error {
	s.mu.Lock()
	s.entry = nil
	s.mu.Unlock()
	return nil
}
