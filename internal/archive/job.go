// Package archive mirrors published report fragments into the fragment store so reports
// can be served after the publisher stops hosting them.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/loader"
	"golang.org/x/sync/errgroup"
)

const defaultWorkerCount = 4

// Store persists archived fragments.
type Store interface {
	Save(ctx context.Context, key report.Key, data []byte) error
	ArchivedDays(ctx context.Context, name, ext, env string, start, finish time.Time) ([]time.Time, error)
}

// extensions maps archivable report names to their document extension.
var extensions = map[string]string{
	report.DailyAuths:         report.ExtJSON,
	report.DailyDropoffs:      report.ExtCSV,
	report.DailyRegistrations: report.ExtJSON,
}

// Stats counts the outcome of one archive run.
type Stats struct {
	Archived    int64 `json:"archived"`
	AlreadyHeld int64 `json:"already_held"`
	Unpublished int64 `json:"unpublished"`
	Failed      int64 `json:"failed"`
}

// Job copies fragments from a source fetcher into a store.
type Job struct {
	source  loader.Fetcher
	store   Store
	reports []string
	env     string
	workers int
}

// NewJob validates the report names and creates a job.
func NewJob(source loader.Fetcher, store Store, reports []string, env string, workers int) (*Job, error) {
	for _, name := range reports {
		if _, ok := extensions[name]; !ok {
			return nil, fmt.Errorf("report %q cannot be archived", name)
		}
	}
	if env == "" {
		env = report.DefaultEnv
	}
	if workers <= 0 {
		workers = defaultWorkerCount
	}
	return &Job{source: source, store: store, reports: reports, env: env, workers: workers}, nil
}

// Run archives every day in [start, finish) of every configured report that the store
// does not hold yet. A day that fails is logged and counted; only a cancelled context or a
// store listing failure stops the run.
func (j *Job) Run(ctx context.Context, start, finish time.Time) (Stats, error) {
	var stats Stats
	for _, name := range j.reports {
		if err := j.runReport(ctx, name, start, finish, &stats); err != nil {
			return stats, err
		}
	}
	return stats, ctx.Err()
}

func (j *Job) runReport(ctx context.Context, name string, start, finish time.Time, stats *Stats) error {
	ext := extensions[name]

	held, err := j.store.ArchivedDays(ctx, name, ext, j.env, start, finish)
	if err != nil {
		return fmt.Errorf("failed to list archived %s days: %w", name, err)
	}
	have := make(map[time.Time]struct{}, len(held))
	for _, d := range held {
		have[report.TruncateToDay(d)] = struct{}{}
	}

	var g errgroup.Group
	g.SetLimit(j.workers)
	for _, day := range report.UTCDays(start, finish) {
		if _, ok := have[day]; ok {
			atomic.AddInt64(&stats.AlreadyHeld, 1)
			continue
		}
		if ctx.Err() != nil {
			break
		}

		key := report.Key{Name: name, Ext: ext, Date: day, Env: j.env}
		g.Go(func() error {
			j.copyDay(ctx, key, stats)
			return nil
		})
	}
	_ = g.Wait()
	return nil
}

func (j *Job) copyDay(ctx context.Context, key report.Key, stats *Stats) {
	data, err := j.source.Fetch(ctx, key)
	if errors.Is(err, loader.ErrNotFound) {
		atomic.AddInt64(&stats.Unpublished, 1)
		return
	}
	if err == nil {
		err = j.store.Save(ctx, key, data)
	}
	if err != nil {
		atomic.AddInt64(&stats.Failed, 1)
		if ctx.Err() == nil {
			slog.Warn("[Archive] Day copy failed", "report", key.Name, "date", report.FormatDay(key.Date), "error", err)
		}
		return
	}
	atomic.AddInt64(&stats.Archived, 1)
}
