package rankings

import (
	"context"
	"fmt"
	"time"

	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"
	"cfbpoll/rankings/internal/provider"
	"cfbpoll/rankings/internal/rating"

	"github.com/rs/zerolog/log"
)

// Generator produces the rankings for a season and week
type Generator interface {
	GetRankings(ctx context.Context, season, week int) (*models.RankingsResult, error)
}

// Service computes rankings from fresh provider data on every call
type Service struct {
	provider provider.SeasonDataProvider
	rater    rating.Rater
}

// NewService creates an uncached Generator
func NewService(p provider.SeasonDataProvider, r rating.Rater) *Service {
	return &Service{provider: p, rater: r}
}

// GetRankings fetches season data through week, rates every team and ranks them
func (s *Service) GetRankings(ctx context.Context, season, week int) (*models.RankingsResult, error) {
	start := time.Now()

	data, err := s.provider.GetSeasonData(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get season data: %w", err)
	}

	ratings, err := s.rater.RateTeams(ctx, data)
	if err != nil {
		metrics.RecordError("rating", "rate_teams")
		return nil, fmt.Errorf("failed to rate teams: %w", err)
	}

	result := Generate(data, ratings)
	result.Season, result.Week = season, week

	duration := time.Since(start)
	metrics.RecordRankingsGenerated(len(result.Rankings), duration.Seconds())
	log.Info().
		Int("season", season).
		Int("week", week).
		Int("teams", len(result.Rankings)).
		Dur("duration", duration).
		Msg("Rankings generated")

	return result, nil
}
