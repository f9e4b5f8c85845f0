package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("CFBD_API_KEY", "test-key")
	t.Setenv("DATABASE_PASSWORD", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.collegefootballdata.com", cfg.CFBDBaseURL)
	assert.Equal(t, 30*time.Second, cfg.CFBDTimeout)
	assert.Equal(t, CacheBackendPostgres, cfg.Backend())
	assert.Equal(t, 6*time.Hour, cfg.CacheCurrentSeasonTTL)
	assert.Equal(t, 365*24*time.Hour, cfg.CachePastSeasonTTL)
	assert.Equal(t, "0 * * * *", cfg.CacheSweepCron)
	assert.Empty(t, cfg.InSeasonRecalcCron)
	assert.Equal(t, 2014, cfg.AllTimeFirstSeason)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("CACHE_CURRENT_SEASON_TTL", "30m")
	t.Setenv("IN_SEASON_RECALC_CRON", "0 6 * * 0")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CacheBackendRedis, cfg.Backend())
	assert.Equal(t, 30*time.Minute, cfg.CacheCurrentSeasonTTL)
	assert.Equal(t, "0 6 * * 0", cfg.InSeasonRecalcCron)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("CFBD_API_KEY", "")
	t.Setenv("DATABASE_PASSWORD", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			CFBDAPIKey:            "k",
			DatabasePassword:      "p",
			CacheBackend:          CacheBackendMemory,
			CacheCurrentSeasonTTL: time.Hour,
			CachePastSeasonTTL:    24 * time.Hour,
			APIRateLimit:          10,
			APIBurstLimit:         5,
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.CacheBackend = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.CachePastSeasonTTL = time.Minute
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.CacheCurrentSeasonTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.APIBurstLimit = 0
	assert.Error(t, cfg.Validate())
}
