package cache

import (
	"sync"

	"jobpilot/aggregator/internal/model"
)

// Slot is the in-process short-circuit in front of the durable store.
type Slot interface {
	Get() (model.CacheEntry, bool)
	Set(entry model.CacheEntry)
	Clear()
}

// LocalSlot is a mutex-guarded Slot.
type LocalSlot struct {
	mu    sync.RWMutex
	entry *model.CacheEntry
}

// NewLocalSlot returns an empty slot.
func NewLocalSlot() *LocalSlot { return &LocalSlot{} }

func (s *LocalSlot) Get() (model.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return model.CacheEntry{}, false
	}
	return *s.entry, true
}

func (s *LocalSlot) Set(entry model.CacheEntry) {
	s.mu.Lock()
	s.entry = &entry
	s.mu.Unlock()
}

func (s *LocalSlot) Clear() {
	s.mu.Lock()
	s.entry = nil
	s.mu.Unlock()
}
