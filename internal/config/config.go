package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Cache backends
const (
	CacheBackendPostgres = "postgres"
	CacheBackendRedis    = "redis"
	CacheBackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// CollegeFootballData API
	CFBDAPIKey  string        `envconfig:"CFBD_API_KEY" required:"true"`
	CFBDBaseURL string        `envconfig:"CFBD_BASE_URL" default:"https://api.collegefootballdata.com"`
	CFBDTimeout time.Duration `envconfig:"CFBD_TIMEOUT" default:"30s"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"cfbpoll"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"cfbpoll"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Caching
	CacheBackend          string        `envconfig:"CACHE_BACKEND" default:"postgres"`
	CacheCurrentSeasonTTL time.Duration `envconfig:"CACHE_CURRENT_SEASON_TTL" default:"6h"`
	CachePastSeasonTTL    time.Duration `envconfig:"CACHE_PAST_SEASON_TTL" default:"8760h"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	CacheSweepCron     string `envconfig:"CACHE_SWEEP_CRON" default:"0 * * * *"`
	InSeasonRecalcCron string `envconfig:"IN_SEASON_RECALC_CRON" default:""`

	// All-time leaderboards
	AllTimeFirstSeason int `envconfig:"ALLTIME_FIRST_SEASON" default:"2014"`

	// API Rate Limiting
	APIRateLimit  int `envconfig:"API_RATE_LIMIT" default:"10"`
	APIBurstLimit int `envconfig:"API_BURST_LIMIT" default:"5"`

	// Monitoring
	MetricsPort int `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CFBDAPIKey == "" {
		return fmt.Errorf("CFBD_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	switch strings.ToLower(c.CacheBackend) {
	case CacheBackendPostgres, CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of postgres, redis, memory; got %q", c.CacheBackend)
	}

	if c.CacheCurrentSeasonTTL <= 0 || c.CachePastSeasonTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.CachePastSeasonTTL < c.CacheCurrentSeasonTTL {
		return fmt.Errorf("CACHE_PAST_SEASON_TTL (%s) must not be shorter than CACHE_CURRENT_SEASON_TTL (%s)",
			c.CachePastSeasonTTL, c.CacheCurrentSeasonTTL)
	}

	if c.APIRateLimit <= 0 || c.APIBurstLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_BURST_LIMIT must be positive")
	}

	return nil
}

// Backend returns the normalized cache backend name
func (c *Config) Backend() string {
	return strings.ToLower(c.CacheBackend)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
