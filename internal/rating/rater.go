// Package rating converts SeasonData into per-team RatingDetails.
package rating

import (
	"context"
	"math"

	"cfbpoll/rankings/internal/models"
)

// Rater maps season data to a rating per team name
type Rater interface {
	RateTeams(ctx context.Context, data *models.SeasonData) (map[string]models.RatingDetails, error)
}

// Component names reported in RatingDetails.RatingComponents
const (
	ComponentWinPercentage      = "winPercentage"
	ComponentScoringMargin      = "scoringMargin"
	ComponentStrengthOfSchedule = "strengthOfSchedule"
	ComponentOffensePPA         = "offensePPA"
	ComponentDefensePPA         = "defensePPA"
)

const (
	marginCap = 28.0

	winWeight    = 50.0
	marginWeight = 25.0
	sosWeight    = 25.0
)

// Opponent weights by where the game was played
var locationWeight = map[models.Location]float64{
	models.LocationHome:    1.0,
	models.LocationNeutral: 1.1,
	models.LocationAway:    1.2,
}

// DefaultRater scores teams on a 0-100 scale from record, capped scoring margin and
// location-weighted opponent win percentage.
type DefaultRater struct{}

// NewDefaultRater creates a DefaultRater
func NewDefaultRater() *DefaultRater {
	return &DefaultRater{}
}

type gameResult struct {
	opponent string
	location models.Location
	margin   int
}

// RateTeams computes rating details for every team in data
func (r *DefaultRater) RateTeams(ctx context.Context, data *models.SeasonData) (map[string]models.RatingDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ratings := make(map[string]models.RatingDetails)
	if data == nil {
		return ratings, nil
	}

	results := make(map[string][]gameResult, len(data.Teams))
	winPct := make(map[string]float64, len(data.Teams))
	for name, team := range data.Teams {
		if team == nil {
			continue
		}
		res := decidedGames(name, team.Games)
		results[name] = res
		winPct[models.NormalizeName(name)] = percentage(res)
	}

	for name, res := range results {
		team := data.Teams[name]

		var wins, losses int
		var marginSum float64
		for _, g := range res {
			if g.margin > 0 {
				wins++
			} else {
				losses++
			}
			marginSum += math.Max(-marginCap, math.Min(marginCap, float64(g.margin)))
		}

		avgMargin := 0.0
		if len(res) > 0 {
			avgMargin = marginSum / float64(len(res))
		}

		var weighted, weights float64
		for _, g := range res {
			w := locationWeight[g.location]
			weighted += w * winPct[models.NormalizeName(g.opponent)]
			weights += w
		}
		sos := 0.0
		if weights > 0 {
			sos = weighted / weights
		}

		pct := winPct[models.NormalizeName(name)]
		components := map[string]float64{
			ComponentWinPercentage:      pct,
			ComponentScoringMargin:      avgMargin,
			ComponentStrengthOfSchedule: sos,
		}
		if team.AdvancedStats != nil {
			components[ComponentOffensePPA] = team.AdvancedStats.Offense.PPA
			components[ComponentDefensePPA] = team.AdvancedStats.Defense.PPA
		}

		ratings[name] = models.RatingDetails{
			Wins:                       wins,
			Losses:                     losses,
			Rating:                     winWeight*pct + marginWeight*(avgMargin+marginCap)/(2*marginCap) + sosWeight*sos,
			WeightedStrengthOfSchedule: sos,
			RatingComponents:           components,
		}
	}

	return ratings, nil
}

func decidedGames(team string, games []models.Game) []gameResult {
	key := models.NormalizeName(team)
	var out []gameResult
	for i := range games {
		g := &games[i]
		if !g.Completed() || *g.HomePoints == *g.AwayPoints {
			continue
		}

		var res gameResult
		switch key {
		case models.NormalizeName(g.HomeTeam):
			res = gameResult{opponent: g.AwayTeam, location: models.LocationHome, margin: *g.HomePoints - *g.AwayPoints}
		case models.NormalizeName(g.AwayTeam):
			res = gameResult{opponent: g.HomeTeam, location: models.LocationAway, margin: *g.AwayPoints - *g.HomePoints}
		default:
			continue
		}
		if g.NeutralSite {
			res.location = models.LocationNeutral
		}
		out = append(out, res)
	}
	return out
}

func percentage(res []gameResult) float64 {
	if len(res) == 0 {
		return 0
	}
	wins := 0
	for _, g := range res {
		if g.margin > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(res))
}
