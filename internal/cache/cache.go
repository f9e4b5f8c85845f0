// Package cache is a compressed, expiring byte cache over a durable Store.
// Callers only ever see deserialized values.
package cache

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// Cache reads and writes typed values through a Store
type Cache struct {
	store Store
	name  string
	now   func() time.Time
}

// Option configures a Cache
type Option func(*Cache)

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache over store. name labels the cache layer in logs and metrics.
func New(store Store, name string, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		name:  name,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the cache layer name
func (c *Cache) Name() string {
	return c.name
}

// Get returns the value stored under key. An expired entry is removed and reported as a miss.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T
	if strings.TrimSpace(key) == "" {
		return zero, false, ErrInvalidKey
	}

	start := time.Now()
	defer func() {
		metrics.RecordCacheOperation(c.name, "get", time.Since(start).Seconds())
	}()

	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.RecordError("cache", "get")
		return zero, false, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	}
	if !found {
		metrics.RecordCacheMiss(c.name)
		return zero, false, nil
	}

	if entry.Expired(c.now()) {
		if _, err := c.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("Failed to evict expired cache entry")
		} else {
			metrics.RecordCacheEviction(c.name, "expired")
		}
		log.Debug().
			Str("cache", c.name).
			Str("key", key).
			Time("expires_at", entry.ExpiresAt).
			Msg("Cache entry expired")
		metrics.RecordCacheMiss(c.name)
		return zero, false, nil
	}

	var value T
	if err := decode(entry.Data, &value); err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("Discarding unreadable cache entry")
		if _, err := c.store.Delete(ctx, key); err == nil {
			metrics.RecordCacheEviction(c.name, "corrupt")
		}
		metrics.RecordCacheMiss(c.name)
		return zero, false, nil
	}

	metrics.RecordCacheHit(c.name)
	return value, true, nil
}

// Set stores value under key until expiresAt
func Set[T any](ctx context.Context, c *Cache, key string, value T, expiresAt time.Time) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if isNil(value) {
		return ErrNilValue
	}

	start := time.Now()
	defer func() {
		metrics.RecordCacheOperation(c.name, "set", time.Since(start).Seconds())
	}()

	data, err := encode(value)
	if err != nil {
		return err
	}

	entry := &models.CacheDataEntry{
		CacheKey:  key,
		Data:      data,
		CachedAt:  c.now(),
		ExpiresAt: expiresAt,
	}
	if err := c.store.Set(ctx, entry); err != nil {
		metrics.RecordError("cache", "set")
		return fmt.Errorf("failed to write cache entry %q: %w", key, err)
	}

	log.Debug().
		Str("cache", c.name).
		Str("key", key).
		Int("bytes", len(data)).
		Time("expires_at", expiresAt).
		Msg("Cache entry stored")

	return nil
}

// Remove deletes the entry for key and reports whether one existed
func (c *Cache) Remove(ctx context.Context, key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrInvalidKey
	}

	removed, err := c.store.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to remove cache entry %q: %w", key, err)
	}
	if removed {
		metrics.RecordCacheEviction(c.name, "removed")
		log.Debug().Str("cache", c.name).Str("key", key).Msg("Cache entry removed")
	}

	return removed, nil
}

// Sweep removes every entry that has expired, including ones nobody has read since
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()

	removed, err := c.store.DeleteExpired(ctx, c.now())
	if err != nil {
		metrics.RecordError("cache", "sweep")
		return 0, fmt.Errorf("failed to sweep cache %s: %w", c.name, err)
	}

	metrics.RecordCacheSweep(c.name, removed)
	log.Info().
		Str("cache", c.name).
		Int64("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Cache sweep complete")

	return removed, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
