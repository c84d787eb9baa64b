// Package retention runs the scheduled chat transcript purge.
package retention

import (
	"context"
	"errors"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/infrastructure/cache"
	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
	"github.com/maisonbelle/salon-site/pkg/observability/worker"
)

const (
	lockName   = "salon-site:retention:chat"
	jobTimeout = 10 * time.Minute
)

// Purger deletes chat sessions idle since before cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Locker serializes the job across replicas. *cache.RedisCache implements it.
type Locker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// Scheduler purges stale transcripts on a cron schedule.
type Scheduler struct {
	schedule  string
	retention time.Duration
	purger    Purger
	locker    Locker
	jobs      *worker.JobInstrumenter
	log       zerolog.Logger
	now       func() time.Time
}

// NewScheduler builds a scheduler; locker and jobs may be nil.
func NewScheduler(schedule string, retention time.Duration, purger Purger, locker Locker, jobs *worker.JobInstrumenter, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		schedule:  schedule,
		retention: retention,
		purger:    purger,
		locker:    locker,
		jobs:      jobs,
		log:       log.With().Str("component", "retention").Logger(),
		now:       time.Now,
	}
}

// Enabled reports whether a retention window is configured.
func (s *Scheduler) Enabled() bool {
	return s.retention > 0
}

// Run schedules the purge and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.Enabled() {
		s.log.Info().Msg("chat retention disabled")
		return nil
	}

	ctab := crontab.New()
	defer ctab.Shutdown()

	if err := ctab.AddJob(s.schedule, func() {
		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()
		if _, err := s.PurgeOnce(jobCtx); err != nil {
			s.log.Error().Err(err).Msg("chat retention purge failed")
		}
	}); err != nil {
		return err
	}
	s.log.Info().Str("schedule", s.schedule).Dur("retention", s.retention).Msg("chat retention scheduled")

	<-ctx.Done()
	return nil
}

// PurgeOnce removes sessions older than the retention window. When another
// replica holds the lock it does nothing and returns zero.
func (s *Scheduler) PurgeOnce(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	var purged int64
	purge := func(ctx context.Context) error {
		cutoff := s.now().UTC().Add(-s.retention)
		n, err := s.purger.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		purged = n
		metrics.RetentionPurgedTotal.Add(float64(n))
		s.log.Info().Int64("sessions", n).Time("cutoff", cutoff).Msg("purged stale chat sessions")
		return nil
	}

	run := purge
	if s.jobs != nil {
		run = func(ctx context.Context) error {
			return s.jobs.Run(ctx, "chat_retention", purge)
		}
	}

	var err error
	if s.locker != nil {
		err = s.locker.WithLock(ctx, lockName, jobTimeout, run)
		if errors.Is(err, cache.ErrLockHeld) {
			s.log.Debug().Err(err).Msg("retention purge skipped; another replica holds the lock")
			return 0, nil
		}
	} else {
		err = run(ctx)
	}
	return purged, err
}
