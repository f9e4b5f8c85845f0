package models

import (
	"strings"
	"time"
)

// CalendarWeek is one week of a season calendar
type CalendarWeek struct {
	Week       int       `json:"week"`
	SeasonType string    `json:"seasonType"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
}

// CalendarWeekInput is the upstream /calendar payload
type CalendarWeekInput struct {
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SeasonType string `json:"seasonType"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// ToCalendarWeek converts CalendarWeekInput (from API) to CalendarWeek
func (ci *CalendarWeekInput) ToCalendarWeek() CalendarWeek {
	week := CalendarWeek{
		Week:       ci.Week,
		SeasonType: strings.ToLower(ci.SeasonType),
	}
	if t, err := time.Parse(time.RFC3339, ci.StartDate); err == nil {
		week.StartDate = t
	}
	if t, err := time.Parse(time.RFC3339, ci.EndDate); err == nil {
		week.EndDate = t
	}
	return week
}

// IsPostseason returns true if this is the postseason calendar entry
func (w CalendarWeek) IsPostseason() bool {
	return strings.EqualFold(w.SeasonType, SeasonTypePostseason)
}

// PostseasonWeek returns the postseason week of a calendar, if any
func PostseasonWeek(calendar []CalendarWeek) (CalendarWeek, bool) {
	for _, w := range calendar {
		if w.IsPostseason() {
			return w, true
		}
	}
	return CalendarWeek{}, false
}
