// Package admin holds the operator workflows: recalculating a week, and
// publishing, deleting and listing persisted snapshots.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"
	"cfbpoll/rankings/internal/rankings"
	"cfbpoll/rankings/internal/rating"
	"cfbpoll/rankings/internal/snapshot"

	"github.com/rs/zerolog/log"
)

// ErrInvalidSeason is returned for a season or week that cannot exist
var ErrInvalidSeason = errors.New("admin: invalid season or week")

// First season of intercollegiate football
const firstSeason = 1869

// SeasonDataSource is the cached season data provider
type SeasonDataSource interface {
	GetSeasonData(ctx context.Context, season, week int) (*models.SeasonData, error)
	InvalidateSeasonData(ctx context.Context, season, week int) error
}

// RankingsReader is the cached public rankings path
type RankingsReader interface {
	rankings.Generator
	Invalidate(ctx context.Context, season, week int) (bool, error)
}

// CalculateResult reports a recalculation. Rankings is set whenever computation
// succeeded, even if it could not be persisted.
type CalculateResult struct {
	Persisted bool                   `json:"persisted"`
	Rankings  *models.RankingsResult `json:"rankings"`
}

// Service runs the admin workflows
type Service struct {
	source    SeasonDataSource
	rater     rating.Rater
	reader    RankingsReader
	snapshots *snapshot.Manager
}

// NewService creates an admin Service
func NewService(source SeasonDataSource, rater rating.Rater, reader RankingsReader, snapshots *snapshot.Manager) *Service {
	return &Service{
		source:    source,
		rater:     rater,
		reader:    reader,
		snapshots: snapshots,
	}
}

func validate(season, week int) error {
	if season < firstSeason || week < 0 {
		return fmt.Errorf("%w: season=%d week=%d", ErrInvalidSeason, season, week)
	}
	return nil
}

// CalculateRankings recomputes (season, week) from fresh upstream data and saves it
// as a draft snapshot. A persistence failure is reported through Persisted, not as an error.
func (s *Service) CalculateRankings(ctx context.Context, season, week int) (*CalculateResult, error) {
	if err := validate(season, week); err != nil {
		return nil, err
	}
	start := time.Now()

	if err := s.source.InvalidateSeasonData(ctx, season, week); err != nil {
		log.Warn().Err(err).Int("season", season).Int("week", week).Msg("Failed to evict season data")
	}

	data, err := s.source.GetSeasonData(ctx, season, week)
	if err != nil {
		metrics.RecordCalculation("upstream_failed")
		return nil, fmt.Errorf("failed to get season data: %w", err)
	}

	ratings, err := s.rater.RateTeams(ctx, data)
	if err != nil {
		metrics.RecordCalculation("rating_failed")
		return nil, fmt.Errorf("failed to rate teams: %w", err)
	}

	result := rankings.Generate(data, ratings)
	result.Season, result.Week = season, week
	metrics.RecordRankingsGenerated(len(result.Rankings), time.Since(start).Seconds())

	if s.reader != nil {
		if _, err := s.reader.Invalidate(ctx, season, week); err != nil {
			log.Warn().Err(err).Int("season", season).Int("week", week).Msg("Failed to evict cached rankings")
		}
	}

	if err := s.snapshots.Save(ctx, result); err != nil {
		metrics.RecordCalculation("persist_failed")
		log.Error().
			Err(err).
			Int("season", season).
			Int("week", week).
			Msg("Rankings calculated but not persisted")
		return &CalculateResult{Persisted: false, Rankings: result}, nil
	}

	metrics.RecordCalculation("success")
	log.Info().
		Int("season", season).
		Int("week", week).
		Int("teams", len(result.Rankings)).
		Dur("duration", time.Since(start)).
		Msg("Rankings calculated and saved as draft")

	return &CalculateResult{Persisted: true, Rankings: result}, nil
}

// PublishSnapshot makes the saved snapshot for (season, week) public
func (s *Service) PublishSnapshot(ctx context.Context, season, week int) (bool, error) {
	if err := validate(season, week); err != nil {
		return false, err
	}
	return s.snapshots.Publish(ctx, season, week)
}

// DeleteSnapshot removes the saved snapshot for (season, week)
func (s *Service) DeleteSnapshot(ctx context.Context, season, week int) (bool, error) {
	if err := validate(season, week); err != nil {
		return false, err
	}
	return s.snapshots.Delete(ctx, season, week)
}

// GetPersistedWeeks lists every saved snapshot, newest first
func (s *Service) GetPersistedWeeks(ctx context.Context) ([]models.PersistedWeekSummary, error) {
	return s.snapshots.ListPersistedWeeks(ctx)
}

// GetPublishedRankings returns the published rankings for (season, week), if any
func (s *Service) GetPublishedRankings(ctx context.Context, season, week int) (*models.RankingsResult, bool, error) {
	if err := validate(season, week); err != nil {
		return nil, false, err
	}
	snap, ok, err := s.snapshots.GetPublishedSnapshot(ctx, season, week)
	if err != nil || !ok {
		return nil, false, err
	}
	return snap.Rankings, true, nil
}

// GetRankings returns live rankings through the cached read path
func (s *Service) GetRankings(ctx context.Context, season, week int) (*models.RankingsResult, error) {
	if err := validate(season, week); err != nil {
		return nil, err
	}
	return s.reader.GetRankings(ctx, season, week)
}
