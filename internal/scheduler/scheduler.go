// Package scheduler runs the ledger's background jobs: the eager daily
// threshold reset at midnight and the redemption expiry sweep. Neither job is
// required for correctness; both bound how stale reads can get.
package scheduler

import (
	"context"
	"time"

	"github.com/roylee0704/gron"
	"github.com/roylee0704/gron/xtime"
	"github.com/rs/zerolog"

	"github.com/kabadiconnect/kabadi-backend/internal/config"
)

// DailyResetter applies the daily threshold reset to every stale collector.
type DailyResetter interface {
	RunDailyReset(ctx context.Context) (int64, error)
}

// RedemptionExpirer deactivates redemptions past their validity window.
type RedemptionExpirer interface {
	ExpireRedemptions(ctx context.Context, now time.Time) (int, error)
}

// Scheduler owns the cron loop for the background jobs.
type Scheduler struct {
	cfg      config.JobsConfig
	resetter DailyResetter
	expirer  RedemptionExpirer
	logger   zerolog.Logger
	cron     *gron.Cron
}

// New creates a Scheduler.
func New(cfg config.JobsConfig, resetter DailyResetter, expirer RedemptionExpirer, logger zerolog.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, resetter: resetter, expirer: expirer, logger: logger}
}

// Start registers and starts the jobs. Job panics are gron's problem; job
// errors are logged and the schedule keeps running.
func (s *Scheduler) Start() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(1*xtime.Day).At(s.cfg.DailyResetAt), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.resetter.RunDailyReset(ctx); err != nil {
			s.logger.Error().Err(err).Msg("daily reset job failed")
		}
	})

	s.cron.AddFunc(gron.Every(s.cfg.ExpirySweepInterval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.expirer.ExpireRedemptions(ctx, time.Now()); err != nil {
			s.logger.Error().Err(err).Msg("redemption expiry sweep failed")
		}
	})

	s.cron.Start()
	s.logger.Info().
		Str("dailyResetAt", s.cfg.DailyResetAt).
		Dur("expirySweepInterval", s.cfg.ExpirySweepInterval).
		Msg("background jobs scheduled")
}

// Stop stops the cron loop. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
