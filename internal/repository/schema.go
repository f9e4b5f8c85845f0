package repository

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ranking_snapshots (
		season     INTEGER     NOT NULL,
		week       INTEGER     NOT NULL,
		published  BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		rankings   JSONB       NOT NULL,
		PRIMARY KEY (season, week)
	)`,
	`CREATE TABLE IF NOT EXISTS cache_entries (
		cache_key  TEXT        PRIMARY KEY,
		data       BYTEA       NOT NULL,
		cached_at  TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries (expires_at)`,
}
