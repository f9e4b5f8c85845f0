package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// CFBDProvider builds SeasonData from the CollegeFootballData API.
// Teams and games are required; statistics degrade to empty on failure.
type CFBDProvider struct {
	api Upstream
}

// NewCFBDProvider creates a provider over the upstream client
func NewCFBDProvider(api Upstream) *CFBDProvider {
	return &CFBDProvider{api: api}
}

// GetCalendar returns the season's regular weeks followed by a single postseason week
// numbered one past the last regular week.
func (p *CFBDProvider) GetCalendar(ctx context.Context, season int) ([]models.CalendarWeek, error) {
	inputs, err := p.api.FetchCalendar(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar for %d: %w", season, err)
	}

	var (
		weeks       []models.CalendarWeek
		post        *models.CalendarWeek
		lastRegular int
	)
	for i := range inputs {
		w := inputs[i].ToCalendarWeek()
		if !w.IsPostseason() {
			if w.Week > lastRegular {
				lastRegular = w.Week
			}
			weeks = append(weeks, w)
			continue
		}
		if post == nil {
			pw := w
			post = &pw
			continue
		}
		if !w.StartDate.IsZero() && (post.StartDate.IsZero() || w.StartDate.Before(post.StartDate)) {
			post.StartDate = w.StartDate
		}
		if w.EndDate.After(post.EndDate) {
			post.EndDate = w.EndDate
		}
	}

	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Week < weeks[j].Week })
	if post != nil {
		post.Week = lastRegular + 1
		post.SeasonType = models.SeasonTypePostseason
		weeks = append(weeks, *post)
	}

	return weeks, nil
}

// GetSeasonData returns teams and games for season up to and including week
func (p *CFBDProvider) GetSeasonData(ctx context.Context, season, week int) (*models.SeasonData, error) {
	start := time.Now()

	postWeek := 0
	calendar, err := p.GetCalendar(ctx, season)
	if err != nil {
		log.Warn().Err(err).Int("season", season).Msg("Calendar unavailable, treating week as regular season")
		metrics.RecordError("provider", "calendar")
	} else if pw, ok := models.PostseasonWeek(calendar); ok {
		postWeek = pw.Week
	}
	isPostseason := postWeek > 0 && week >= postWeek

	teamInputs, err := p.api.FetchTeams(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams for %d: %w", season, err)
	}

	regular, err := p.api.FetchGames(ctx, season, models.SeasonTypeRegular, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regular season games for %d: %w", season, err)
	}

	var games []models.Game
	for i := range regular {
		g := regular[i].ToGame()
		if isPostseason || g.Week <= week {
			games = append(games, g)
		}
	}

	if isPostseason {
		post, err := p.api.FetchGames(ctx, season, models.SeasonTypePostseason, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch postseason games for %d: %w", season, err)
		}
		for i := range post {
			g := post[i].ToGame()
			g.Week = postWeek
			games = append(games, g)
		}
	}

	data := buildSeasonData(season, week, teamInputs, games)

	statsWeek := week
	if isPostseason {
		statsWeek = 0
	}
	p.attachStats(ctx, data, statsWeek)

	log.Info().
		Int("season", season).
		Int("week", week).
		Int("teams", len(data.Teams)).
		Int("games", len(data.Games)).
		Dur("duration", time.Since(start)).
		Msg("Season data fetched")

	return data, nil
}

// GetFullSeasonSchedule returns every regular and postseason game of a season
func (p *CFBDProvider) GetFullSeasonSchedule(ctx context.Context, season int) ([]models.ScheduleGame, error) {
	regular, err := p.api.FetchGames(ctx, season, models.SeasonTypeRegular, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch regular season schedule for %d: %w", season, err)
	}

	schedule := make([]models.ScheduleGame, 0, len(regular))
	lastRegular := 0
	for i := range regular {
		g := regular[i].ToScheduleGame()
		if g.Week > lastRegular {
			lastRegular = g.Week
		}
		schedule = append(schedule, g)
	}

	post, err := p.api.FetchGames(ctx, season, models.SeasonTypePostseason, 0)
	if err != nil {
		log.Warn().Err(err).Int("season", season).Msg("Postseason schedule unavailable")
		metrics.RecordError("provider", "postseason_schedule")
	}
	for i := range post {
		g := post[i].ToScheduleGame()
		g.Week = lastRegular + 1
		schedule = append(schedule, g)
	}

	sort.SliceStable(schedule, func(i, j int) bool {
		if schedule[i].Week != schedule[j].Week {
			return schedule[i].Week < schedule[j].Week
		}
		return schedule[i].StartDate.Before(schedule[j].StartDate)
	})

	return schedule, nil
}

func buildSeasonData(season, week int, teamInputs []models.TeamInput, games []models.Game) *models.SeasonData {
	data := &models.SeasonData{
		Season: season,
		Week:   week,
		Teams:  make(map[string]*models.TeamInfo, len(teamInputs)),
	}

	byKey := make(map[string]*models.TeamInfo, len(teamInputs))
	for i := range teamInputs {
		team := teamInputs[i].ToTeamInfo()
		if team.Name == "" {
			continue
		}
		data.Teams[team.Name] = team
		byKey[models.NormalizeName(team.Name)] = team
	}

	for _, g := range games {
		home := byKey[models.NormalizeName(g.HomeTeam)]
		away := byKey[models.NormalizeName(g.AwayTeam)]
		if home == nil && away == nil {
			continue
		}
		data.Games = append(data.Games, g)

		for _, side := range []struct {
			team          *models.TeamInfo
			pts, otherPts *int
		}{
			{home, g.HomePoints, g.AwayPoints},
			{away, g.AwayPoints, g.HomePoints},
		} {
			if side.team == nil {
				continue
			}
			side.team.Games = append(side.team.Games, g)
			if !g.Completed() {
				continue
			}
			switch {
			case *side.pts > *side.otherPts:
				side.team.Wins++
			case *side.pts < *side.otherPts:
				side.team.Losses++
			}
		}
	}

	return data
}

// attachStats adds season and advanced statistics; failures leave them empty
func (p *CFBDProvider) attachStats(ctx context.Context, data *models.SeasonData, endWeek int) {
	byKey := make(map[string]*models.TeamInfo, len(data.Teams))
	for name, team := range data.Teams {
		byKey[models.NormalizeName(name)] = team
	}

	stats, err := p.api.FetchTeamSeasonStats(ctx, data.Season, endWeek)
	if err != nil {
		log.Warn().Err(err).Int("season", data.Season).Msg("Season stats unavailable, continuing without them")
		metrics.RecordError("provider", "season_stats")
		stats = nil
	}
	for _, s := range stats {
		team := byKey[models.NormalizeName(s.Team)]
		if team == nil {
			continue
		}
		if team.Stats == nil {
			team.Stats = make(map[string]float64)
		}
		team.Stats[s.StatName] = s.StatValue
	}

	advanced, err := p.api.FetchAdvancedSeasonStats(ctx, data.Season, endWeek)
	if err != nil {
		log.Warn().Err(err).Int("season", data.Season).Msg("Advanced stats unavailable, continuing without them")
		metrics.RecordError("provider", "advanced_stats")
		advanced = nil
	}
	for i := range advanced {
		team := byKey[models.NormalizeName(advanced[i].Team)]
		if team == nil {
			continue
		}
		team.AdvancedStats = advanced[i].ToAdvancedStats()
	}
}
