package provider

import (
	"context"
	"errors"
	"fmt"

	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// SeasonDataKey is the cache key for a season/week of raw season data
func SeasonDataKey(season, week int) string {
	return fmt.Sprintf("seasondata:%d:%d", season, week)
}

// CalendarKey is the cache key for a season calendar
func CalendarKey(season int) string {
	return fmt.Sprintf("calendar:%d", season)
}

// ScheduleKey is the cache key for a full-season schedule
func ScheduleKey(season int) string {
	return fmt.Sprintf("schedule:%d", season)
}

// CachedProvider serves season data from the differential cache and falls back to inner
type CachedProvider struct {
	inner  SeasonDataProvider
	cache  *cache.Cache
	policy cache.ExpirationPolicy
}

// NewCachedProvider wraps inner with the cache
func NewCachedProvider(inner SeasonDataProvider, c *cache.Cache, policy cache.ExpirationPolicy) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, policy: policy}
}

// GetSeasonData returns season data through the season-data cache
func (p *CachedProvider) GetSeasonData(ctx context.Context, season, week int) (*models.SeasonData, error) {
	return readThrough(ctx, p, SeasonDataKey(season, week), season, func() (*models.SeasonData, error) {
		return p.inner.GetSeasonData(ctx, season, week)
	})
}

// GetCalendar returns the season calendar through the cache
func (p *CachedProvider) GetCalendar(ctx context.Context, season int) ([]models.CalendarWeek, error) {
	return readThrough(ctx, p, CalendarKey(season), season, func() ([]models.CalendarWeek, error) {
		return p.inner.GetCalendar(ctx, season)
	})
}

// GetFullSeasonSchedule returns the full schedule through the cache
func (p *CachedProvider) GetFullSeasonSchedule(ctx context.Context, season int) ([]models.ScheduleGame, error) {
	return readThrough(ctx, p, ScheduleKey(season), season, func() ([]models.ScheduleGame, error) {
		return p.inner.GetFullSeasonSchedule(ctx, season)
	})
}

// InvalidateSeasonData evicts cached season data for (season, week) so the next read refetches
func (p *CachedProvider) InvalidateSeasonData(ctx context.Context, season, week int) error {
	removed, err := p.cache.Remove(ctx, SeasonDataKey(season, week))
	if err != nil {
		return err
	}
	log.Info().
		Int("season", season).
		Int("week", week).
		Bool("removed", removed).
		Msg("Season data cache invalidated")
	return nil
}

// readThrough serves key from the cache, loading and storing it on a miss.
// Cache read and write failures are logged and the loaded value still returned.
func readThrough[T any](ctx context.Context, p *CachedProvider, key string, season int, load func() (T, error)) (T, error) {
	cached, found, err := cache.Get[T](ctx, p.cache, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed, loading from upstream")
	}
	if found {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := cache.Set(ctx, p.cache, key, value, p.policy.ExpiresAt(season)); err != nil && !errors.Is(err, cache.ErrNilValue) {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache upstream data")
	}

	return value, nil
}
