package snapshot

import (
	"context"
	"sort"
	"sync"

	"cfbpoll/rankings/internal/models"
)

type weekKey struct {
	season, week int
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[weekKey]models.Snapshot
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[weekKey]models.Snapshot)}
}

// Upsert stores snap, replacing any snapshot for the same week
func (s *MemoryStore) Upsert(_ context.Context, snap *models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[weekKey{snap.Season, snap.Week}] = *snap
	return nil
}

// SetPublished marks a stored snapshot published
func (s *MemoryStore) SetPublished(_ context.Context, season, week int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := weekKey{season, week}
	snap, ok := s.snaps[k]
	if !ok {
		return false, nil
	}
	snap.Published = true
	s.snaps[k] = snap
	return true, nil
}

// Delete removes a stored snapshot
func (s *MemoryStore) Delete(_ context.Context, season, week int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := weekKey{season, week}
	if _, ok := s.snaps[k]; !ok {
		return false, nil
	}
	delete(s.snaps, k)
	return true, nil
}

// Get returns the snapshot for (season, week)
func (s *MemoryStore) Get(_ context.Context, season, week int) (*models.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[weekKey{season, week}]
	if !ok {
		return nil, false, nil
	}
	return &snap, true, nil
}

// List returns every stored week, newest first
func (s *MemoryStore) List(_ context.Context) ([]models.PersistedWeekSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PersistedWeekSummary, 0, len(s.snaps))
	for _, snap := range s.snaps {
		out = append(out, snap.PersistedWeekSummary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season > out[j].Season
		}
		return out[i].Week > out[j].Week
	})
	return out, nil
}
