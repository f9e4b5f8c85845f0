package cache

import (
	"context"
	"sync"
	"time"

	"cfbpoll/rankings/internal/models"
)

// MemoryStore keeps cache entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]models.CacheDataEntry
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]models.CacheDataEntry)}
}

// Get returns the entry for key, expired or not
func (s *MemoryStore) Get(_ context.Context, key string) (*models.CacheDataEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry.Data = append([]byte(nil), entry.Data...)
	return &entry, true, nil
}

// Set stores entry, replacing any existing entry with the same key
func (s *MemoryStore) Set(_ context.Context, entry *models.CacheDataEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *entry
	stored.Data = append([]byte(nil), entry.Data...)
	s.entries[entry.CacheKey] = stored
	return nil
}

// Delete removes key and reports whether it existed
func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// DeleteExpired removes entries that expired before now
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
