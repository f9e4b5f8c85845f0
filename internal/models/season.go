package models

// SeasonData is everything known about a season up to and including a week.
// Teams is keyed by the team name as reported upstream.
type SeasonData struct {
	Season int                  `json:"season"`
	Week   int                  `json:"week"`
	Teams  map[string]*TeamInfo `json:"teams"`
	Games  []Game               `json:"games"`
}
