// Package app wires configuration into the running object graph shared by the
// server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cfbpoll/rankings/internal/admin"
	"cfbpoll/rankings/internal/alltime"
	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/client"
	"cfbpoll/rankings/internal/config"
	"cfbpoll/rankings/internal/provider"
	"cfbpoll/rankings/internal/rankings"
	"cfbpoll/rankings/internal/rating"
	"cfbpoll/rankings/internal/repository"
	"cfbpoll/rankings/internal/scheduler"
	"cfbpoll/rankings/internal/snapshot"

	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "cfbpoll:"

// App holds the constructed services
type App struct {
	DB *repository.Database

	SeasonCache   *cache.Cache
	RankingsCache *cache.Cache
	Policy        cache.ExpirationPolicy

	Provider  *provider.CachedProvider
	Generator *rankings.CachedGenerator
	Snapshots *snapshot.Manager
	Admin     *admin.Service
	AllTime   *alltime.Aggregator

	redis *cache.RedisStore
}

// New connects to the database and the configured cache backend and builds every service
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{DB: db}

	store := a.cacheStore(ctx, cfg)
	a.SeasonCache = cache.New(store, "seasondata")
	a.RankingsCache = cache.New(store, "rankings")
	a.Policy = cache.NewExpirationPolicy(cfg.CacheCurrentSeasonTTL, cfg.CachePastSeasonTTL)

	api := client.NewClient(cfg.CFBDBaseURL, cfg.CFBDAPIKey, client.Options{
		Timeout:    cfg.CFBDTimeout,
		RateLimit:  float64(cfg.APIRateLimit),
		Burst:      cfg.APIBurstLimit,
		MaxRetries: 3,
		RetryDelay: time.Second,
	})
	log.Info().Str("base_url", cfg.CFBDBaseURL).Msg("CollegeFootballData client initialized")

	rater := rating.NewDefaultRater()
	a.Provider = provider.NewCachedProvider(provider.NewCFBDProvider(api), a.SeasonCache, a.Policy)
	a.Generator = rankings.NewCachedGenerator(rankings.NewService(a.Provider, rater), a.RankingsCache, a.Policy)
	a.Snapshots = snapshot.NewManager(db.Snapshots)
	a.Admin = admin.NewService(a.Provider, rater, a.Generator, a.Snapshots)
	a.AllTime = alltime.NewAggregator(a.Provider, a.Snapshots, cfg.AllTimeFirstSeason)

	return a, nil
}

// cacheStore picks the configured backend. An unreachable Redis falls back to Postgres.
func (a *App) cacheStore(ctx context.Context, cfg *config.Config) cache.Store {
	switch cfg.Backend() {
	case config.CacheBackendMemory:
		log.Info().Msg("Using in-memory cache")
		return cache.NewMemoryStore()
	case config.CacheBackendRedis:
		rs, err := cache.NewRedisStore(ctx, cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisKeyPrefix,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - falling back to Postgres cache")
			return a.DB.Cache
		}
		a.redis = rs
		log.Info().Msg("Redis cache connected")
		return rs
	default:
		log.Info().Msg("Using Postgres cache")
		return a.DB.Cache
	}
}

// Scheduler builds the background job scheduler from cfg
func (a *App) Scheduler(cfg *config.Config) *scheduler.Scheduler {
	return scheduler.NewScheduler(
		scheduler.Config{SweepCron: cfg.CacheSweepCron, RecalcCron: cfg.InSeasonRecalcCron},
		a.Caches(),
		a.Admin,
		a.Provider,
		a.Snapshots,
	)
}

// Caches returns every cache layer
func (a *App) Caches() []*cache.Cache {
	return []*cache.Cache{a.SeasonCache, a.RankingsCache}
}

// Close releases connections
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis connection")
		}
	}
	a.DB.Close()
}
