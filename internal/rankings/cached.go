package rankings

import (
	"context"
	"errors"
	"fmt"

	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// CacheKey is the cache key for computed rankings
func CacheKey(season, week int) string {
	return fmt.Sprintf("rankings:%d:%d", season, week)
}

// CachedGenerator serves rankings from the differential cache, computing through inner on a miss
type CachedGenerator struct {
	inner  Generator
	cache  *cache.Cache
	policy cache.ExpirationPolicy
}

// NewCachedGenerator wraps inner with the cache
func NewCachedGenerator(inner Generator, c *cache.Cache, policy cache.ExpirationPolicy) *CachedGenerator {
	return &CachedGenerator{inner: inner, cache: c, policy: policy}
}

// GetRankings returns cached rankings for (season, week), generating and storing them on a miss
func (g *CachedGenerator) GetRankings(ctx context.Context, season, week int) (*models.RankingsResult, error) {
	key := CacheKey(season, week)

	cached, found, err := cache.Get[*models.RankingsResult](ctx, g.cache, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed, generating rankings")
	}
	if found && cached != nil {
		return cached, nil
	}

	result, err := g.inner.GetRankings(ctx, season, week)
	if err != nil {
		return nil, err
	}

	if err := cache.Set(ctx, g.cache, key, result, g.policy.ExpiresAt(season)); err != nil && !errors.Is(err, cache.ErrNilValue) {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache rankings")
	}
	return result, nil
}

// Invalidate evicts the cached rankings for (season, week)
func (g *CachedGenerator) Invalidate(ctx context.Context, season, week int) (bool, error) {
	return g.cache.Remove(ctx, CacheKey(season, week))
}
