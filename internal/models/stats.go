package models

// TeamStatInput is one row of the upstream /stats/season payload
type TeamStatInput struct {
	Season     int     `json:"season"`
	Team       string  `json:"team"`
	Conference string  `json:"conference"`
	StatName   string  `json:"statName"`
	StatValue  float64 `json:"statValue"`
}

// AdvancedStats holds per-play efficiency metrics for a team's season
type AdvancedStats struct {
	Offense AdvancedSideStats `json:"offense"`
	Defense AdvancedSideStats `json:"defense"`
}

// AdvancedSideStats is one side of the ball
type AdvancedSideStats struct {
	Plays         float64 `json:"plays"`
	PPA           float64 `json:"ppa"`
	SuccessRate   float64 `json:"successRate"`
	Explosiveness float64 `json:"explosiveness"`
	PointsPerOpp  float64 `json:"pointsPerOpportunity"`
}

// AdvancedStatsInput is one row of the upstream /stats/season/advanced payload
type AdvancedStatsInput struct {
	Season     int               `json:"season"`
	Team       string            `json:"team"`
	Conference string            `json:"conference"`
	Offense    AdvancedSideStats `json:"offense"`
	Defense    AdvancedSideStats `json:"defense"`
}

// ToAdvancedStats converts AdvancedStatsInput (from API) to AdvancedStats
func (ai *AdvancedStatsInput) ToAdvancedStats() *AdvancedStats {
	return &AdvancedStats{
		Offense: ai.Offense,
		Defense: ai.Defense,
	}
}
