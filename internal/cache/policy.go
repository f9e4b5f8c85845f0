package cache

import "time"

// Default horizons for current and past seasons
const (
	DefaultCurrentSeasonTTL = 6 * time.Hour
	DefaultPastSeasonTTL    = 365 * 24 * time.Hour
)

// ExpirationPolicy computes absolute expiry times from the season a value belongs to.
// Past seasons no longer change upstream, so they are kept for a very long horizon.
type ExpirationPolicy struct {
	CurrentSeasonTTL time.Duration
	PastSeasonTTL    time.Duration
	Now              func() time.Time
}

// NewExpirationPolicy creates a policy, falling back to the defaults for zero durations
func NewExpirationPolicy(currentSeasonTTL, pastSeasonTTL time.Duration) ExpirationPolicy {
	if currentSeasonTTL <= 0 {
		currentSeasonTTL = DefaultCurrentSeasonTTL
	}
	if pastSeasonTTL <= 0 {
		pastSeasonTTL = DefaultPastSeasonTTL
	}
	return ExpirationPolicy{
		CurrentSeasonTTL: currentSeasonTTL,
		PastSeasonTTL:    pastSeasonTTL,
		Now:              time.Now,
	}
}

// CurrentSeason returns the season in progress at t. January belongs to the
// previous year's season because bowl games finish then.
func CurrentSeason(t time.Time) int {
	if t.Month() == time.January {
		return t.Year() - 1
	}
	return t.Year()
}

// ExpiresAt returns when a value for season should expire if written now
func (p ExpirationPolicy) ExpiresAt(season int) time.Time {
	now := p.now()
	if season < CurrentSeason(now) {
		return now.Add(p.PastSeasonTTL)
	}
	return now.Add(p.CurrentSeasonTTL)
}

func (p ExpirationPolicy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
