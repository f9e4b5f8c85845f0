package cache

import (
	"context"
	"errors"
	"time"

	"cfbpoll/rankings/internal/models"
)

var (
	// ErrInvalidKey is returned for blank cache keys
	ErrInvalidKey = errors.New("cache key must not be blank")
	// ErrNilValue is returned when Set is called with a nil value
	ErrNilValue = errors.New("cache value must not be nil")
)

// Store is the durable backing storage for cache entries
type Store interface {
	// Get returns the entry for key, or false if there is none
	Get(ctx context.Context, key string) (*models.CacheDataEntry, bool, error)
	// Set creates or overwrites the entry for entry.CacheKey
	Set(ctx context.Context, entry *models.CacheDataEntry) error
	// Delete removes the entry for key and reports whether one existed
	Delete(ctx context.Context, key string) (bool, error)
	// DeleteExpired removes every entry whose expiry is at or before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
