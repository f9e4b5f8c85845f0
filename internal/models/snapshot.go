package models

import "time"

// PersistedWeekSummary describes one stored snapshot row
type PersistedWeekSummary struct {
	Season    int       `json:"season" db:"season"`
	Week      int       `json:"week" db:"week"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Snapshot is a persisted RankingsResult with its lifecycle state
type Snapshot struct {
	PersistedWeekSummary
	Rankings *RankingsResult `json:"rankings"`
}

// CacheDataEntry is one row of the differential cache
type CacheDataEntry struct {
	CacheKey  string    `json:"cacheKey" db:"cache_key"`
	Data      []byte    `json:"data" db:"data"`
	CachedAt  time.Time `json:"cachedAt" db:"cached_at"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// Expired reports whether the entry is no longer valid at now
func (e *CacheDataEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
