package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cfbpoll/rankings/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps cache entries as Redis hashes that expire natively at ExpiresAt
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Int("db", cfg.DB).
		Msg("Successfully connected to redis")

	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Get returns the entry stored under key
func (s *RedisStore) Get(ctx context.Context, key string) (*models.CacheDataEntry, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get redis entry: %w", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	entry := &models.CacheDataEntry{
		CacheKey: key,
		Data:     []byte(fields["data"]),
	}
	entry.CachedAt, err = parseUnixMilli(fields["cached_at"])
	if err != nil {
		return nil, false, fmt.Errorf("invalid cached_at for %q: %w", key, err)
	}
	entry.ExpiresAt, err = parseUnixMilli(fields["expires_at"])
	if err != nil {
		return nil, false, fmt.Errorf("invalid expires_at for %q: %w", key, err)
	}

	return entry, true, nil
}

// Set stores entry as a hash that Redis expires at entry.ExpiresAt
func (s *RedisStore) Set(ctx context.Context, entry *models.CacheDataEntry) error {
	k := s.key(entry.CacheKey)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k,
			"data", entry.Data,
			"cached_at", entry.CachedAt.UnixMilli(),
			"expires_at", entry.ExpiresAt.UnixMilli(),
		)
		pipe.ExpireAt(ctx, k, entry.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set redis entry: %w", err)
	}

	return nil
}

// Delete removes key and reports whether it existed
func (s *RedisStore) Delete(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete redis entry: %w", err)
	}
	return n > 0, nil
}

// DeleteExpired is a no-op: Redis evicts entries itself once their expiry passes
func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil {
		return err
	}
	log.Info().Msg("Redis connection closed")
	return nil
}

func parseUnixMilli(v string) (time.Time, error) {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
