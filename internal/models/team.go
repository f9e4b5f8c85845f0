package models

// TeamInfo carries identity, record, games and statistics for one team in a SeasonData
type TeamInfo struct {
	Name         string `json:"name"`
	Mascot       string `json:"mascot,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Conference   string `json:"conference,omitempty"`
	Division     string `json:"division,omitempty"`
	Color        string `json:"color,omitempty"`
	AltColor     string `json:"altColor,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`

	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Games  []Game `json:"games"`

	// Stats maps a season statistic name (e.g. "totalYards") to its value
	Stats         map[string]float64 `json:"stats,omitempty"`
	AdvancedStats *AdvancedStats     `json:"advancedStats,omitempty"`
}

// TeamInput is the upstream /teams/fbs payload
type TeamInput struct {
	ID             int      `json:"id"`
	School         string   `json:"school"`
	Mascot         string   `json:"mascot"`
	Abbreviation   string   `json:"abbreviation"`
	Conference     string   `json:"conference"`
	Division       string   `json:"division"`
	Classification string   `json:"classification"`
	Color          string   `json:"color"`
	AltColor       string   `json:"alternateColor"`
	Logos          []string `json:"logos"`
}

// ToTeamInfo converts TeamInput (from API) to a TeamInfo with no games yet
func (ti *TeamInput) ToTeamInfo() *TeamInfo {
	team := &TeamInfo{
		Name:         ti.School,
		Mascot:       ti.Mascot,
		Abbreviation: ti.Abbreviation,
		Conference:   ti.Conference,
		Division:     ti.Division,
		Color:        ti.Color,
		AltColor:     ti.AltColor,
	}
	if team.Division == "" {
		team.Division = ti.Classification
	}
	if len(ti.Logos) > 0 {
		team.LogoURL = ti.Logos[0]
	}
	return team
}
