package models

// RatingDetails is the per-team output of a rating provider
type RatingDetails struct {
	Wins                       int                `json:"wins"`
	Losses                     int                `json:"losses"`
	Rating                     float64            `json:"rating"`
	WeightedStrengthOfSchedule float64            `json:"weightedStrengthOfSchedule"`
	RatingComponents           map[string]float64 `json:"ratingComponents,omitempty"`
}

// RankingsResult is one computed ranking for a (season, week).
// It is never mutated after creation.
type RankingsResult struct {
	Season   int          `json:"season"`
	Week     int          `json:"week"`
	Rankings []RankedTeam `json:"rankings"`
}

// RankedTeam is a single row of a RankingsResult
type RankedTeam struct {
	Rank             int                `json:"rank"`
	TeamName         string             `json:"teamName"`
	Rating           float64            `json:"rating"`
	WeightedSOS      float64            `json:"weightedSOS"`
	SOSRanking       int                `json:"sosRanking"`
	Wins             int                `json:"wins"`
	Losses           int                `json:"losses"`
	Conference       string             `json:"conference,omitempty"`
	Division         string             `json:"division,omitempty"`
	LogoURL          string             `json:"logoUrl,omitempty"`
	Color            string             `json:"color,omitempty"`
	AltColor         string             `json:"altColor,omitempty"`
	RatingComponents map[string]float64 `json:"ratingComponents,omitempty"`
	Details          TeamDetails        `json:"details"`
}

// GamesPlayed returns the number of decided games on the team's record
func (t *RankedTeam) GamesPlayed() int {
	return t.Wins + t.Losses
}

// Record is a win/loss count
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// AddWin returns the record with one more win
func (r Record) AddWin() Record {
	return Record{Wins: r.Wins + 1, Losses: r.Losses}
}

// AddLoss returns the record with one more loss
func (r Record) AddLoss() Record {
	return Record{Wins: r.Wins, Losses: r.Losses + 1}
}

// Add returns the record with the result applied
func (r Record) Add(won bool) Record {
	if won {
		return r.AddWin()
	}
	return r.AddLoss()
}

// Location is where a game was played relative to the team
type Location int

const (
	LocationHome Location = iota
	LocationAway
	LocationNeutral
)

// TeamDetails splits a team's record by location and opponent strength tier
type TeamDetails struct {
	Home          Record `json:"home"`
	Away          Record `json:"away"`
	Neutral       Record `json:"neutral"`
	VsRank1To10   Record `json:"vsRank1To10"`
	VsRank11To25  Record `json:"vsRank11To25"`
	VsRank26To50  Record `json:"vsRank26To50"`
	VsRank51To100 Record `json:"vsRank51To100"`
	VsRank101Plus Record `json:"vsRank101Plus"`
}

// WithGame returns new details with one game's result added to its location and tier buckets.
// Tier is 1..5; anything outside that range counts as tier 5.
func (d TeamDetails) WithGame(location Location, tier int, won bool) TeamDetails {
	switch location {
	case LocationHome:
		d.Home = d.Home.Add(won)
	case LocationAway:
		d.Away = d.Away.Add(won)
	default:
		d.Neutral = d.Neutral.Add(won)
	}

	switch tier {
	case 1:
		d.VsRank1To10 = d.VsRank1To10.Add(won)
	case 2:
		d.VsRank11To25 = d.VsRank11To25.Add(won)
	case 3:
		d.VsRank26To50 = d.VsRank26To50.Add(won)
	case 4:
		d.VsRank51To100 = d.VsRank51To100.Add(won)
	default:
		d.VsRank101Plus = d.VsRank101Plus.Add(won)
	}

	return d
}
