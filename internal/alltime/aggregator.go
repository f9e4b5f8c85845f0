// Package alltime builds cross-season leaderboards from published postseason snapshots.
package alltime

import (
	"context"
	"time"

	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// CalendarSource supplies a season's calendar
type CalendarSource interface {
	GetCalendar(ctx context.Context, season int) ([]models.CalendarWeek, error)
}

// PublishedSource supplies published snapshots
type PublishedSource interface {
	GetPublishedSnapshot(ctx context.Context, season, week int) (*models.Snapshot, bool, error)
}

// Aggregator reads every season's final published rankings
type Aggregator struct {
	calendar    CalendarSource
	snapshots   PublishedSource
	firstSeason int
	now         func() time.Time
}

// NewAggregator creates an Aggregator covering firstSeason through the current season
func NewAggregator(calendar CalendarSource, snapshots PublishedSource, firstSeason int) *Aggregator {
	return &Aggregator{
		calendar:    calendar,
		snapshots:   snapshots,
		firstSeason: firstSeason,
		now:         time.Now,
	}
}

// GetAllTimeRankings builds the three leaderboards. Seasons without a postseason
// calendar entry or without a published snapshot for that week are skipped.
func (a *Aggregator) GetAllTimeRankings(ctx context.Context) (*models.AllTimeRankings, error) {
	lastSeason := cache.CurrentSeason(a.now())

	var pool []models.AllTimeEntry
	seasons := 0
	for season := a.firstSeason; season <= lastSeason; season++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, ok := a.seasonPool(ctx, season)
		if !ok {
			continue
		}
		seasons++
		pool = append(pool, entries...)
	}

	log.Info().
		Int("first_season", a.firstSeason).
		Int("last_season", lastSeason).
		Int("seasons", seasons).
		Int("teams", len(pool)).
		Msg("All-time pool assembled")

	return &models.AllTimeRankings{
		BestTeams:        SelectBestTeams(pool),
		WorstTeams:       SelectWorstTeams(pool),
		HardestSchedules: SelectHardestSchedules(pool),
	}, nil
}

func (a *Aggregator) seasonPool(ctx context.Context, season int) ([]models.AllTimeEntry, bool) {
	calendar, err := a.calendar.GetCalendar(ctx, season)
	if err != nil {
		log.Warn().Err(err).Int("season", season).Msg("Calendar unavailable, skipping season")
		return nil, false
	}

	post, ok := models.PostseasonWeek(calendar)
	if !ok {
		log.Debug().Int("season", season).Msg("No postseason week, skipping season")
		return nil, false
	}

	snap, ok, err := a.snapshots.GetPublishedSnapshot(ctx, season, post.Week)
	if err != nil {
		log.Warn().Err(err).Int("season", season).Int("week", post.Week).Msg("Snapshot unavailable, skipping season")
		return nil, false
	}
	if !ok || snap.Rankings == nil {
		log.Debug().Int("season", season).Int("week", post.Week).Msg("No published postseason snapshot, skipping season")
		return nil, false
	}

	entries := make([]models.AllTimeEntry, 0, len(snap.Rankings.Rankings))
	for _, team := range snap.Rankings.Rankings {
		entries = append(entries, models.AllTimeEntry{
			Season:     season,
			Week:       post.Week,
			RankedTeam: team,
		})
	}
	return entries, true
}
