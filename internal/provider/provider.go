// Package provider supplies SeasonData, calendars and schedules to the ranking pipeline.
package provider

import (
	"context"

	"cfbpoll/rankings/internal/models"
)

// SeasonDataProvider supplies season data, calendars and full-season schedules
type SeasonDataProvider interface {
	GetSeasonData(ctx context.Context, season, week int) (*models.SeasonData, error)
	GetCalendar(ctx context.Context, season int) ([]models.CalendarWeek, error)
	GetFullSeasonSchedule(ctx context.Context, season int) ([]models.ScheduleGame, error)
}

// Upstream is the subset of the CollegeFootballData client the provider needs
type Upstream interface {
	FetchTeams(ctx context.Context, year int) ([]models.TeamInput, error)
	FetchGames(ctx context.Context, year int, seasonType string, week int) ([]models.GameInput, error)
	FetchCalendar(ctx context.Context, year int) ([]models.CalendarWeekInput, error)
	FetchTeamSeasonStats(ctx context.Context, year, endWeek int) ([]models.TeamStatInput, error)
	FetchAdvancedSeasonStats(ctx context.Context, year, endWeek int) ([]models.AdvancedStatsInput, error)
}
