package alltime

import (
	"sort"

	"cfbpoll/rankings/internal/models"
)

// Leaderboard size and rating thresholds
const (
	ListSize = 25

	BestRatingThreshold  = 40.0
	WorstRatingThreshold = 16.0
)

// SelectBestTeams returns the highest-rated teams at or above the threshold, or the
// highest-rated teams overall when fewer than ListSize clear it.
func SelectBestTeams(pool []models.AllTimeEntry) []models.AllTimeEntry {
	byRatingDesc := func(a, b models.AllTimeEntry) bool { return a.Rating > b.Rating }

	candidates := filter(pool, func(e models.AllTimeEntry) bool { return e.Rating >= BestRatingThreshold })
	if len(candidates) < ListSize {
		candidates = filter(pool, nil)
	}
	return top(candidates, byRatingDesc)
}

// SelectWorstTeams returns the lowest-rated teams that played at least one game,
// preferring those at or below the threshold.
func SelectWorstTeams(pool []models.AllTimeEntry) []models.AllTimeEntry {
	byRatingAsc := func(a, b models.AllTimeEntry) bool { return a.Rating < b.Rating }

	eligible := filter(pool, func(e models.AllTimeEntry) bool { return e.GamesPlayed() > 0 })
	candidates := filter(eligible, func(e models.AllTimeEntry) bool { return e.Rating <= WorstRatingThreshold })
	if len(candidates) < ListSize {
		candidates = eligible
	}
	return top(candidates, byRatingAsc)
}

// SelectHardestSchedules returns the teams with the highest weighted strength of schedule
func SelectHardestSchedules(pool []models.AllTimeEntry) []models.AllTimeEntry {
	return top(filter(pool, nil), func(a, b models.AllTimeEntry) bool { return a.WeightedSOS > b.WeightedSOS })
}

// filter copies the entries matching keep; a nil keep copies everything
func filter(pool []models.AllTimeEntry, keep func(models.AllTimeEntry) bool) []models.AllTimeEntry {
	out := make([]models.AllTimeEntry, 0, len(pool))
	for _, e := range pool {
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// top sorts entries in place by better, takes the first ListSize and assigns all-time ranks.
// Equal entries order by season descending, then team name.
func top(entries []models.AllTimeEntry, better func(a, b models.AllTimeEntry) bool) []models.AllTimeEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if better(a, b) {
			return true
		}
		if better(b, a) {
			return false
		}
		if a.Season != b.Season {
			return a.Season > b.Season
		}
		return models.NormalizeName(a.TeamName) < models.NormalizeName(b.TeamName)
	})

	if len(entries) > ListSize {
		entries = entries[:ListSize]
	}
	for i := range entries {
		entries[i].AllTimeRank = i + 1
	}
	return entries
}
