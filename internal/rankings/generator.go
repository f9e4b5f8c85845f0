// Package rankings turns per-team ratings and a season's games into an ordered,
// annotated RankingsResult.
package rankings

import (
	"math"
	"sort"

	"cfbpoll/rankings/internal/models"
)

// Decimals is the fixed precision applied to rating and weighted SOS
const Decimals = 4

// Opponent rank ceilings for tiers 1-4; anything deeper, or unranked, is tier 5
var tierCeilings = [...]int{10, 25, 50, 100}

// NormalizeName is the key used for every team-name lookup
func NormalizeName(name string) string {
	return models.NormalizeName(name)
}

// Tier classifies an opponent rank into one of the five strength buckets
func Tier(rank int, ranked bool) int {
	if !ranked || rank < 1 {
		return len(tierCeilings) + 1
	}
	for i, ceiling := range tierCeilings {
		if rank <= ceiling {
			return i + 1
		}
	}
	return len(tierCeilings) + 1
}

// Round rounds v to the given number of decimal places, halves away from zero
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

type ratedTeam struct {
	name   string
	key    string
	rating models.RatingDetails
}

// Generate builds a RankingsResult from season data and a ratings map keyed by team name.
// Ties on rating (and on weighted SOS) are broken by normalized team name, so the
// output is deterministic for the same inputs.
func Generate(data *models.SeasonData, ratings map[string]models.RatingDetails) *models.RankingsResult {
	result := &models.RankingsResult{
		Rankings: make([]models.RankedTeam, 0, len(ratings)),
	}
	if data != nil {
		result.Season = data.Season
		result.Week = data.Week
	}

	teams := make([]ratedTeam, 0, len(ratings))
	for name, r := range ratings {
		teams = append(teams, ratedTeam{name: name, key: NormalizeName(name), rating: r})
	}

	sort.Slice(teams, func(i, j int) bool {
		return less(teams[i], teams[j], teams[i].rating.Rating, teams[j].rating.Rating)
	})
	rankByKey := make(map[string]int, len(teams))
	for i, t := range teams {
		rankByKey[t.key] = i + 1
	}

	bySOS := make([]ratedTeam, len(teams))
	copy(bySOS, teams)
	sort.Slice(bySOS, func(i, j int) bool {
		return less(bySOS[i], bySOS[j],
			bySOS[i].rating.WeightedStrengthOfSchedule, bySOS[j].rating.WeightedStrengthOfSchedule)
	})
	sosRankByKey := make(map[string]int, len(bySOS))
	for i, t := range bySOS {
		sosRankByKey[t.key] = i + 1
	}

	infoByKey := indexTeams(data)

	for i, t := range teams {
		ranked := models.RankedTeam{
			Rank:             i + 1,
			TeamName:         t.name,
			Rating:           Round(t.rating.Rating, Decimals),
			WeightedSOS:      Round(t.rating.WeightedStrengthOfSchedule, Decimals),
			SOSRanking:       sosRankByKey[t.key],
			Wins:             t.rating.Wins,
			Losses:           t.rating.Losses,
			RatingComponents: copyComponents(t.rating.RatingComponents),
		}

		if info, ok := infoByKey[t.key]; ok {
			ranked.Conference = info.Conference
			ranked.Division = info.Division
			ranked.LogoURL = info.LogoURL
			ranked.Color = info.Color
			ranked.AltColor = info.AltColor
			ranked.Details = BuildDetails(t.name, info.Games, rankByKey)
		}

		result.Rankings = append(result.Rankings, ranked)
	}

	return result
}

// BuildDetails splits a team's completed games into location and opponent-tier records.
// rankByKey maps normalized team names to their rank; opponents missing from it are tier 5.
func BuildDetails(team string, games []models.Game, rankByKey map[string]int) models.TeamDetails {
	var details models.TeamDetails
	key := NormalizeName(team)

	for i := range games {
		g := &games[i]
		if !g.Completed() {
			continue
		}

		var (
			location        models.Location
			opponent        string
			teamPts, oppPts int
		)
		switch {
		case NormalizeName(g.HomeTeam) == key:
			location, opponent = models.LocationHome, g.AwayTeam
			teamPts, oppPts = *g.HomePoints, *g.AwayPoints
		case NormalizeName(g.AwayTeam) == key:
			location, opponent = models.LocationAway, g.HomeTeam
			teamPts, oppPts = *g.AwayPoints, *g.HomePoints
		default:
			continue
		}
		if teamPts == oppPts {
			continue
		}
		if g.NeutralSite {
			location = models.LocationNeutral
		}

		oppRank, ranked := rankByKey[NormalizeName(opponent)]
		details = details.WithGame(location, Tier(oppRank, ranked), teamPts > oppPts)
	}

	return details
}

func less(a, b ratedTeam, va, vb float64) bool {
	if va != vb {
		return va > vb
	}
	if a.key != b.key {
		return a.key < b.key
	}
	return a.name < b.name
}

func indexTeams(data *models.SeasonData) map[string]*models.TeamInfo {
	if data == nil {
		return nil
	}
	index := make(map[string]*models.TeamInfo, len(data.Teams))
	for name, info := range data.Teams {
		if info == nil {
			continue
		}
		index[NormalizeName(name)] = info
	}
	return index
}

func copyComponents(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ComponentNames returns the sorted union of rating component names across all teams
func ComponentNames(result *models.RankingsResult) []string {
	if result == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, t := range result.Rankings {
		for name := range t.RatingComponents {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
