package models

// AllTimeEntry is a ranked team from one season's postseason snapshot
type AllTimeEntry struct {
	AllTimeRank int `json:"allTimeRank"`
	Season      int `json:"season"`
	Week        int `json:"week"`
	RankedTeam
}

// AllTimeRankings holds the three curated cross-season leaderboards
type AllTimeRankings struct {
	BestTeams        []AllTimeEntry `json:"bestTeams"`
	WorstTeams       []AllTimeEntry `json:"worstTeams"`
	HardestSchedules []AllTimeEntry `json:"hardestSchedules"`
}
