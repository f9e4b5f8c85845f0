package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfbpoll/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// CacheRepository stores compressed cache payloads in Postgres
type CacheRepository struct {
	db *Database
}

// Get retrieves a cache entry by key
func (r *CacheRepository) Get(ctx context.Context, key string) (*models.CacheDataEntry, bool, error) {
	query := `
		SELECT cache_key, data, cached_at, expires_at
		FROM cache_entries
		WHERE cache_key = $1
	`

	start := time.Now()
	entry := &models.CacheDataEntry{}
	err := r.db.Pool.QueryRow(ctx, query, key).Scan(
		&entry.CacheKey, &entry.Data, &entry.CachedAt, &entry.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		observe("select", "cache_entries", start, nil)
		return nil, false, nil
	}
	observe("select", "cache_entries", start, err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return entry, true, nil
}

// Set inserts or replaces a cache entry
func (r *CacheRepository) Set(ctx context.Context, entry *models.CacheDataEntry) error {
	query := `
		INSERT INTO cache_entries (cache_key, data, cached_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			data = EXCLUDED.data,
			cached_at = EXCLUDED.cached_at,
			expires_at = EXCLUDED.expires_at
	`

	start := time.Now()
	_, err := r.db.Pool.Exec(ctx, query, entry.CacheKey, entry.Data, entry.CachedAt, entry.ExpiresAt)
	observe("upsert", "cache_entries", start, err)
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	log.Debug().
		Str("key", entry.CacheKey).
		Int("bytes", len(entry.Data)).
		Time("expires_at", entry.ExpiresAt).
		Msg("Cache entry stored")

	return nil
}

// Delete removes a cache entry, reporting whether one existed
func (r *CacheRepository) Delete(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM cache_entries WHERE cache_key = $1`, key)
	observe("delete", "cache_entries", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteExpired removes every entry whose expiry is at or before now
func (r *CacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= $1`, now)
	observe("delete", "cache_entries", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", err)
	}

	if n := result.RowsAffected(); n > 0 {
		log.Info().Int64("removed", n).Msg("Expired cache entries deleted")
	}
	return result.RowsAffected(), nil
}
