package models

import (
	"strings"
	"time"
)

// Season types reported by the upstream calendar
const (
	SeasonTypeRegular    = "regular"
	SeasonTypePostseason = "postseason"
)

// Game represents a college football game between two named teams
type Game struct {
	ID          int       `json:"id"`
	Season      int       `json:"season"`
	Week        int       `json:"week"`
	SeasonType  string    `json:"seasonType"`
	StartDate   time.Time `json:"startDate"`
	NeutralSite bool      `json:"neutralSite"`

	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomePoints *int   `json:"homePoints,omitempty"`
	AwayPoints *int   `json:"awayPoints,omitempty"`
}

// ScheduleGame is a game on the full-season schedule with conference context
type ScheduleGame struct {
	Game
	HomeConference string `json:"homeConference"`
	AwayConference string `json:"awayConference"`
}

// GameInput is the upstream /games payload
type GameInput struct {
	ID             int    `json:"id"`
	Season         int    `json:"season"`
	Week           int    `json:"week"`
	SeasonType     string `json:"seasonType"`
	StartDate      string `json:"startDate"` // ISO 8601 format
	NeutralSite    bool   `json:"neutralSite"`
	Completed      bool   `json:"completed"`
	HomeTeam       string `json:"homeTeam"`
	HomeConference string `json:"homeConference"`
	HomePoints     *int   `json:"homePoints,omitempty"`
	AwayTeam       string `json:"awayTeam"`
	AwayConference string `json:"awayConference"`
	AwayPoints     *int   `json:"awayPoints,omitempty"`
}

// ToGame converts GameInput (from API) to Game model
func (gi *GameInput) ToGame() Game {
	game := Game{
		ID:          gi.ID,
		Season:      gi.Season,
		Week:        gi.Week,
		SeasonType:  strings.ToLower(gi.SeasonType),
		NeutralSite: gi.NeutralSite,
		HomeTeam:    gi.HomeTeam,
		AwayTeam:    gi.AwayTeam,
		HomePoints:  gi.HomePoints,
		AwayPoints:  gi.AwayPoints,
	}

	if startDate, err := time.Parse(time.RFC3339, gi.StartDate); err == nil {
		game.StartDate = startDate
	}

	return game
}

// ToScheduleGame converts GameInput to a ScheduleGame
func (gi *GameInput) ToScheduleGame() ScheduleGame {
	return ScheduleGame{
		Game:           gi.ToGame(),
		HomeConference: gi.HomeConference,
		AwayConference: gi.AwayConference,
	}
}

// Completed returns true if both final scores are known
func (g *Game) Completed() bool {
	return g.HomePoints != nil && g.AwayPoints != nil
}

// IsPostseason returns true for bowl and playoff games
func (g *Game) IsPostseason() bool {
	return strings.EqualFold(g.SeasonType, SeasonTypePostseason)
}
