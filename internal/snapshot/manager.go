// Package snapshot manages the draft, published and deleted lifecycle of
// persisted weekly rankings.
//
// A (season, week) has at most one snapshot. Saving always produces a draft,
// even over a previously published snapshot; publishing flips the visibility
// flag; deleting removes the row entirely.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrInvalidRankings is returned when Save is given no rankings to persist
var ErrInvalidRankings = errors.New("snapshot: rankings result is required")

// Store is the durable home of snapshots
type Store interface {
	// Upsert inserts or fully replaces the snapshot for its (season, week)
	Upsert(ctx context.Context, snap *models.Snapshot) error
	// SetPublished marks an existing snapshot published, reporting false if none exists
	SetPublished(ctx context.Context, season, week int) (bool, error)
	Delete(ctx context.Context, season, week int) (bool, error)
	Get(ctx context.Context, season, week int) (*models.Snapshot, bool, error)
	// List returns summaries ordered by season then week, both descending
	List(ctx context.Context) ([]models.PersistedWeekSummary, error)
}

// Manager applies lifecycle rules on top of a Store
type Manager struct {
	store Store
	now   func() time.Time
}

// NewManager creates a Manager
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Save persists result as an unpublished draft, replacing any existing snapshot
// for the same (season, week).
func (m *Manager) Save(ctx context.Context, result *models.RankingsResult) error {
	if result == nil || result.Rankings == nil {
		return ErrInvalidRankings
	}

	snap := &models.Snapshot{
		PersistedWeekSummary: models.PersistedWeekSummary{
			Season:    result.Season,
			Week:      result.Week,
			Published: false,
			CreatedAt: m.now().UTC(),
		},
		Rankings: result,
	}

	if err := m.store.Upsert(ctx, snap); err != nil {
		metrics.RecordSnapshotOperation("save", "error")
		return fmt.Errorf("failed to save snapshot %d/%d: %w", result.Season, result.Week, err)
	}

	metrics.RecordSnapshotOperation("save", "ok")
	log.Info().
		Int("season", result.Season).
		Int("week", result.Week).
		Int("teams", len(result.Rankings)).
		Msg("Snapshot saved as draft")
	return nil
}

// Publish makes the snapshot for (season, week) publicly visible
func (m *Manager) Publish(ctx context.Context, season, week int) (bool, error) {
	ok, err := m.store.SetPublished(ctx, season, week)
	if err != nil {
		metrics.RecordSnapshotOperation("publish", "error")
		return false, fmt.Errorf("failed to publish snapshot %d/%d: %w", season, week, err)
	}
	if !ok {
		metrics.RecordSnapshotOperation("publish", "not_found")
		return false, nil
	}

	metrics.RecordSnapshotOperation("publish", "ok")
	log.Info().Int("season", season).Int("week", week).Msg("Snapshot published")
	return true, nil
}

// Delete removes the snapshot for (season, week)
func (m *Manager) Delete(ctx context.Context, season, week int) (bool, error) {
	ok, err := m.store.Delete(ctx, season, week)
	if err != nil {
		metrics.RecordSnapshotOperation("delete", "error")
		return false, fmt.Errorf("failed to delete snapshot %d/%d: %w", season, week, err)
	}
	if !ok {
		metrics.RecordSnapshotOperation("delete", "not_found")
		return false, nil
	}

	metrics.RecordSnapshotOperation("delete", "ok")
	log.Info().Int("season", season).Int("week", week).Msg("Snapshot deleted")
	return true, nil
}

// GetSnapshot returns the snapshot for (season, week) regardless of visibility
func (m *Manager) GetSnapshot(ctx context.Context, season, week int) (*models.Snapshot, bool, error) {
	snap, ok, err := m.store.Get(ctx, season, week)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot %d/%d: %w", season, week, err)
	}
	return snap, ok, nil
}

// GetPublishedSnapshot returns the snapshot only if it has been published
func (m *Manager) GetPublishedSnapshot(ctx context.Context, season, week int) (*models.Snapshot, bool, error) {
	snap, ok, err := m.GetSnapshot(ctx, season, week)
	if err != nil || !ok || !snap.Published {
		return nil, false, err
	}
	return snap, true, nil
}

// ListPersistedWeeks returns every persisted week, newest first
func (m *Manager) ListPersistedWeeks(ctx context.Context) ([]models.PersistedWeekSummary, error) {
	weeks, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list persisted weeks: %w", err)
	}
	return weeks, nil
}
