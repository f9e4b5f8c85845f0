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

// SnapshotRepository persists ranking snapshots, one row per (season, week)
type SnapshotRepository struct {
	db *Database
}

// Upsert inserts a snapshot or fully replaces the existing row for its season and week
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO ranking_snapshots (season, week, published, created_at, rankings)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (season, week) DO UPDATE SET
			published = EXCLUDED.published,
			created_at = EXCLUDED.created_at,
			rankings = EXCLUDED.rankings
	`

	start := time.Now()
	_, err := r.db.Pool.Exec(ctx, query,
		snap.Season, snap.Week, snap.Published, snap.CreatedAt, snap.Rankings,
	)
	observe("upsert", "ranking_snapshots", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	log.Debug().
		Int("season", snap.Season).
		Int("week", snap.Week).
		Bool("published", snap.Published).
		Msg("Snapshot upserted")

	return nil
}

// SetPublished marks the snapshot published
func (r *SnapshotRepository) SetPublished(ctx context.Context, season, week int) (bool, error) {
	start := time.Now()
	result, err := r.db.Pool.Exec(ctx,
		`UPDATE ranking_snapshots SET published = TRUE WHERE season = $1 AND week = $2`,
		season, week,
	)
	observe("update", "ranking_snapshots", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to publish snapshot: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Delete removes the snapshot row
func (r *SnapshotRepository) Delete(ctx context.Context, season, week int) (bool, error) {
	start := time.Now()
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM ranking_snapshots WHERE season = $1 AND week = $2`,
		season, week,
	)
	observe("delete", "ranking_snapshots", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Get retrieves the snapshot for a season and week
func (r *SnapshotRepository) Get(ctx context.Context, season, week int) (*models.Snapshot, bool, error) {
	query := `
		SELECT season, week, published, created_at, rankings
		FROM ranking_snapshots
		WHERE season = $1 AND week = $2
	`

	start := time.Now()
	snap := &models.Snapshot{}
	err := r.db.Pool.QueryRow(ctx, query, season, week).Scan(
		&snap.Season, &snap.Week, &snap.Published, &snap.CreatedAt, &snap.Rankings,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		observe("select", "ranking_snapshots", start, nil)
		return nil, false, nil
	}
	observe("select", "ranking_snapshots", start, err)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snap, true, nil
}

// List returns all snapshot summaries, newest season and week first
func (r *SnapshotRepository) List(ctx context.Context) ([]models.PersistedWeekSummary, error) {
	query := `
		SELECT season, week, published, created_at
		FROM ranking_snapshots
		ORDER BY season DESC, week DESC
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		observe("select", "ranking_snapshots", start, err)
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	weeks := make([]models.PersistedWeekSummary, 0)
	for rows.Next() {
		var w models.PersistedWeekSummary
		if err := rows.Scan(&w.Season, &w.Week, &w.Published, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot summary: %w", err)
		}
		weeks = append(weeks, w)
	}
	err = rows.Err()
	observe("select", "ranking_snapshots", start, err)
	if err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return weeks, nil
}
