package scheduler

import (
	"context"
	"fmt"
	"time"

	"cfbpoll/rankings/internal/admin"
	"cfbpoll/rankings/internal/cache"
	"cfbpoll/rankings/internal/metrics"
	"cfbpoll/rankings/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job names used in logs and metrics
const (
	JobCacheSweep     = "cache_sweep"
	JobInSeasonRecalc = "in_season_recalc"
)

// Calculator recalculates and saves a week's rankings as a draft
type Calculator interface {
	CalculateRankings(ctx context.Context, season, week int) (*admin.CalculateResult, error)
}

// CalendarSource supplies a season's calendar
type CalendarSource interface {
	GetCalendar(ctx context.Context, season int) ([]models.CalendarWeek, error)
}

// SnapshotReader looks up a stored snapshot
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, season, week int) (*models.Snapshot, bool, error)
}

// Config holds the job schedules. An empty RecalcCron disables recalculation.
type Config struct {
	SweepCron  string
	RecalcCron string
}

// Scheduler runs background maintenance:
// - sweeping expired cache entries
// - optionally recalculating the current week as a draft (never published)
type Scheduler struct {
	cfg        Config
	caches     []*cache.Cache
	calculator Calculator
	calendar   CalendarSource
	snapshots  SnapshotReader
	cron       *cron.Cron
	now        func() time.Time
}

// NewScheduler creates a new scheduler instance. calculator, calendar and snapshots
// may be nil when in-season recalculation is disabled.
func NewScheduler(cfg Config, caches []*cache.Cache, calculator Calculator, calendar CalendarSource, snapshots SnapshotReader) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		caches:     caches,
		calculator: calculator,
		calendar:   calendar,
		snapshots:  snapshots,
		cron:       cron.New(),
		now:        time.Now,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.SweepCron, func() {
		s.run(ctx, JobCacheSweep, func(ctx context.Context) error {
			_, err := s.SweepCaches(ctx)
			return err
		})
	}); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	log.Info().Str("schedule", s.cfg.SweepCron).Msg("Cache sweep scheduled")

	if s.cfg.RecalcCron != "" {
		if s.calculator == nil || s.calendar == nil || s.snapshots == nil {
			return fmt.Errorf("in-season recalculation requires a calculator, calendar and snapshot reader")
		}
		if _, err := s.cron.AddFunc(s.cfg.RecalcCron, func() {
			s.run(ctx, JobInSeasonRecalc, func(ctx context.Context) error {
				_, err := s.RecalculateCurrentWeek(ctx)
				return err
			})
		}); err != nil {
			return fmt.Errorf("failed to schedule in-season recalculation: %w", err)
		}
		log.Info().Str("schedule", s.cfg.RecalcCron).Msg("In-season recalculation scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, job string, fn func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := fn(ctx); err != nil {
		metrics.RecordJob(job, "error", time.Since(start).Seconds())
		metrics.RecordError("scheduler", job)
		log.Error().Err(err).Str("job", job).Msg("Scheduled job failed")
		return
	}
	metrics.RecordJob(job, "success", time.Since(start).Seconds())
}

// SweepCaches removes expired entries from every cache, continuing past failures
func (s *Scheduler) SweepCaches(ctx context.Context) (int64, error) {
	var total int64
	var firstErr error
	for _, c := range s.caches {
		n, err := c.Sweep(ctx)
		if err != nil {
			log.Error().Err(err).Str("layer", c.Name()).Msg("Cache sweep failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total += n
	}

	log.Info().Int64("removed", total).Int("caches", len(s.caches)).Msg("Cache sweep complete")
	return total, firstErr
}

// RecalculateCurrentWeek recalculates the week in progress, or the most recently
// finished week, of the current season. It reports false outside the season and
// when that week is already published, since saving would turn it back into a draft.
func (s *Scheduler) RecalculateCurrentWeek(ctx context.Context) (bool, error) {
	now := s.now()
	season := cache.CurrentSeason(now)

	calendar, err := s.calendar.GetCalendar(ctx, season)
	if err != nil {
		return false, fmt.Errorf("failed to get calendar: %w", err)
	}

	week, ok := CurrentWeek(calendar, now)
	if !ok {
		log.Info().Int("season", season).Msg("Season has not started, skipping recalculation")
		return false, nil
	}

	snap, found, err := s.snapshots.GetSnapshot(ctx, season, week.Week)
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	if found && snap.Published {
		log.Info().Int("season", season).Int("week", week.Week).Msg("Week already published, skipping recalculation")
		return false, nil
	}

	res, err := s.calculator.CalculateRankings(ctx, season, week.Week)
	if err != nil {
		return false, err
	}
	if !res.Persisted {
		return false, fmt.Errorf("rankings for %d week %d were not persisted", season, week.Week)
	}
	return true, nil
}

// CurrentWeek picks the calendar week containing now, or else the latest week
// that has already started.
func CurrentWeek(calendar []models.CalendarWeek, now time.Time) (models.CalendarWeek, bool) {
	var latest models.CalendarWeek
	found := false
	for _, w := range calendar {
		if w.StartDate.IsZero() || w.StartDate.After(now) {
			continue
		}
		if !w.EndDate.IsZero() && !now.After(w.EndDate) {
			return w, true
		}
		if !found || w.StartDate.After(latest.StartDate) {
			latest, found = w, true
		}
	}
	return latest, found
}
