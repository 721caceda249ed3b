package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
)

const finalRunTimeout = 30 * time.Second

// Scheduler runs the archive job on a periodic interval over a trailing window of days.
// It is stateless: each tick lists what the store holds and copies the rest.
type Scheduler struct {
	interval     time.Duration
	lookbackDays int
	job          *Job
	nowFn        func() time.Time
}

// NewScheduler creates a scheduler archiving the lookbackDays days before today.
func NewScheduler(interval time.Duration, lookbackDays int, job *Job) *Scheduler {
	return &Scheduler{
		interval:     interval,
		lookbackDays: lookbackDays,
		job:          job,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Start begins periodic archiving.
// Runs until context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Archive] Starting archive scheduler",
		"interval", s.interval,
		"lookback_days", s.lookbackDays,
		"reports", s.job.reports,
	)

	s.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Archive] Stopping (context cancelled)")
			return nil
		}
	}
}

// Window returns the trailing [start, finish) range a run covers. Today is excluded
// because its fragment is not published until the day ends.
func (s *Scheduler) Window() (start, finish time.Time) {
	finish = report.TruncateToDay(s.nowFn())
	return finish.AddDate(0, 0, -s.lookbackDays), finish
}

// RunOnce archives the current window and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) Stats {
	runCtx, cancel := context.WithTimeout(ctx, max(s.interval, finalRunTimeout))
	defer cancel()

	start, finish := s.Window()
	stats, err := s.job.Run(runCtx, start, finish)
	if err != nil {
		slog.Error("[Archive] Run failed",
			"start", report.FormatDay(start),
			"finish", report.FormatDay(finish),
			"error", err,
		)
		return stats
	}

	slog.Info("[Archive] Run complete",
		"start", report.FormatDay(start),
		"finish", report.FormatDay(finish),
		"archived", stats.Archived,
		"already_held", stats.AlreadyHeld,
		"unpublished", stats.Unpublished,
		"failed", stats.Failed,
	)
	return stats
}
