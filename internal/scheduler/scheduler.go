package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Runner is one schedulable unit of work, satisfied by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler drives repeated pipeline runs on a cron schedule. Ticks that
// land while a run is still going are skipped, so at most one run is in
// flight at any time.
type Scheduler struct {
	runner   Runner
	schedule string // cron spec, e.g. "@daily" or "@every 6h"
	logger   *slog.Logger
}

// New creates a scheduler for the given cron schedule.
func New(runner Runner, schedule string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		logger:   logger,
	}
}

// Run fires one immediate pass, then ticks on the schedule until ctx is
// cancelled. It returns nil on graceful shutdown; run failures are logged,
// not returned, so one bad pass never kills the daemon.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger{logger: s.logger}),
	))

	_, err := c.AddFunc(s.schedule, func() {
		if err := s.runner.Run(ctx); err != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("parsing schedule %q: %w", s.schedule, err)
	}

	s.logger.Info("daemon started", "schedule", s.schedule)

	// The first pass runs before the cron starts, so a fresh daemon
	// reports right away instead of waiting out the first tick.
	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("initial run failed", "error", err)
	}

	c.Start()
	<-ctx.Done()

	s.logger.Info("shutting down daemon")
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts slog to the cron.Logger interface. With the
// skip-if-still-running chain it only ever reports skipped ticks.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
