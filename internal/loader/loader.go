// Package loader fetches the per-day fragments of published reports.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrency = 8

// Fragment is the raw document published for one report day.
type Fragment struct {
	Date time.Time
	Key  report.Key
	Data []byte
}

// Result holds the fragments that loaded, in day order, and the days that did not.
type Result struct {
	Fragments []Fragment
	Missing   []time.Time
}

// Partial reports whether any requested day failed to load.
func (r Result) Partial() bool {
	return len(r.Missing) > 0
}

// Loader fetches every day of a range concurrently.
type Loader struct {
	fetcher        Fetcher
	maxConcurrency int
}

// New creates a loader. maxConcurrency <= 0 uses a default limit.
func New(fetcher Fetcher, maxConcurrency int) *Loader {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Loader{fetcher: fetcher, maxConcurrency: maxConcurrency}
}

// LoadDays fetches one fragment per UTC day in [start, finish). A failed day is logged and
// listed in Result.Missing; it never cancels or fails its siblings. The only error returned
// is the caller's context being done.
func (l *Loader) LoadDays(ctx context.Context, name, ext string, start, finish time.Time, env string) (Result, error) {
	days := report.UTCDays(start, finish)
	slots := make([]*Fragment, len(days))

	// plain Group, not WithContext: one day's failure must not cancel the others
	var g errgroup.Group
	g.SetLimit(l.maxConcurrency)

	for i, day := range days {
		key := report.Key{Name: name, Date: day, Env: env, Ext: ext}
		g.Go(func() error {
			data, err := l.fetcher.Fetch(ctx, key)
			if err != nil {
				logFetchFailure(key, err)
				return nil
			}
			slots[i] = &Fragment{Date: day, Key: key, Data: data}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("loading %s: %w", name, err)
	}

	var result Result
	for i, slot := range slots {
		if slot == nil {
			result.Missing = append(result.Missing, days[i])
			continue
		}
		result.Fragments = append(result.Fragments, *slot)
	}
	return result, nil
}

// LoadOne fetches the single fragment of name published for date.
func (l *Loader) LoadOne(ctx context.Context, name, ext string, date time.Time, env string) (Fragment, error) {
	key := report.Key{Name: name, Date: report.TruncateToDay(date), Env: env, Ext: ext}
	data, err := l.fetcher.Fetch(ctx, key)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Date: key.Date, Key: key, Data: data}, nil
}

func logFetchFailure(key report.Key, err error) {
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	slog.Log(context.Background(), level, "[Loader] Day fetch failed",
		"report", key.Name,
		"date", report.FormatDay(key.Date),
		"error", err)
}
