// Package registrations builds the daily registrations report and the account deletion
// rate derived from it. Unlike the per-day reports, one document published for the
// finish date carries the whole history.
package registrations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/loader"
)

// Result is one day of registrations with running totals from the first day in the document.
type Result struct {
	Date                           time.Time `json:"date"`
	TotalUsers                     int64     `json:"total_users"`
	TotalUsersCumulative           int64     `json:"total_users_cumulative"`
	FullyRegisteredUsers           int64     `json:"fully_registered_users"`
	FullyRegisteredUsersCumulative int64     `json:"fully_registered_users_cumulative"`
	DeletedUsers                   int64     `json:"deleted_users"`
}

type document struct {
	Finish  string      `json:"finish"`
	Results []rawResult `json:"results"`
}

type rawResult struct {
	Date                 string `json:"date"`
	TotalUsers           int64  `json:"total_users"`
	FullyRegisteredUsers int64  `json:"fully_registered_users"`
	DeletedUsers         int64  `json:"deleted_users"`
}

// Parse decodes a registrations document and derives cumulative sums in date order.
func Parse(data []byte) ([]Result, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode registrations report: %w", err)
	}

	results := make([]Result, 0, len(doc.Results))
	for _, r := range doc.Results {
		date, err := report.ParseTimestamp(r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid registrations date %q: %w", r.Date, err)
		}
		results = append(results, Result{
			Date:                 date,
			TotalUsers:           r.TotalUsers,
			FullyRegisteredUsers: r.FullyRegisteredUsers,
			DeletedUsers:         r.DeletedUsers,
		})
	}
	return Process(results), nil
}

// Process sorts results by date and fills the cumulative columns. The input is not modified.
func Process(results []Result) []Result {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b Result) int { return a.Date.Compare(b.Date) })

	var totalUsers, fullyRegistered int64
	for i := range out {
		totalUsers += out[i].TotalUsers
		fullyRegistered += out[i].FullyRegisteredUsers
		out[i].TotalUsersCumulative = totalUsers
		out[i].FullyRegisteredUsersCumulative = fullyRegistered
	}
	return out
}

// Load fetches the document published for the filter's finish date. A document that
// cannot be fetched yields no results and reports the finish day as missing.
func Load(ctx context.Context, l *loader.Loader, f report.Filter) (results []Result, missing []time.Time, err error) {
	fragment, err := l.LoadOne(ctx, report.DailyRegistrations, report.ExtJSON, f.Finish, f.Env)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		slog.Warn("[Registrations] Report unavailable", "date", report.FormatDay(f.Finish), "error", err)
		return []Result{}, []time.Time{report.TruncateToDay(f.Finish)}, nil
	}

	results, err = Parse(fragment.Data)
	if err != nil {
		return nil, nil, err
	}
	return results, nil, nil
}

// Window keeps results dated within [start, finish], both inclusive.
func Window(results []Result, start, finish time.Time) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if !r.Date.Before(start) && !r.Date.After(finish) {
			out = append(out, r)
		}
	}
	return out
}
