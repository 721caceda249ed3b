// Package auths builds the daily authentications report: counts of authentications per
// agency, app and identity assurance level, one fragment per UTC day.
package auths

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/loader"
)

// Row is one normalized authentication count.
type Row struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
	IAL   int       `json:"ial"`
	report.Dimensions
}

type document struct {
	Start   string   `json:"start"`
	Finish  string   `json:"finish"`
	Results []result `json:"results"`
}

type result struct {
	Count        int64  `json:"count"`
	IAL          int    `json:"ial"`
	Issuer       string `json:"issuer"`
	IAA          string `json:"iaa"`
	FriendlyName string `json:"friendly_name"`
	Agency       string `json:"agency"`
}

// Parse decodes one daily fragment. Every row is dated by the fragment's start, falling
// back to day when start is absent.
func Parse(data []byte, day time.Time) ([]Row, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode auths report: %w", err)
	}

	date := report.TruncateToDay(day)
	if doc.Start != "" {
		start, err := report.ParseTimestamp(doc.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid auths report start %q: %w", doc.Start, err)
		}
		date = report.TruncateToDay(start)
	}

	rows := make([]Row, 0, len(doc.Results))
	for _, r := range doc.Results {
		rows = append(rows, Row{
			Date:  date,
			Count: r.Count,
			IAL:   r.IAL,
			Dimensions: report.Normalize(report.Dimensions{
				Agency:       r.Agency,
				Issuer:       r.Issuer,
				FriendlyName: r.FriendlyName,
				IAA:          r.IAA,
			}),
		})
	}
	return rows, nil
}

// Load fetches and parses every day of the filter's range. Days that fail to fetch or
// parse are returned in missing.
func Load(ctx context.Context, l *loader.Loader, f report.Filter) (rows []Row, missing []time.Time, err error) {
	result, err := l.LoadDays(ctx, report.DailyAuths, report.ExtJSON, f.Start, f.Finish, f.Env)
	if err != nil {
		return nil, nil, err
	}

	missing = result.Missing
	for _, fragment := range result.Fragments {
		parsed, err := Parse(fragment.Data, fragment.Date)
		if err != nil {
			slog.Warn("[Auths] Dropping unreadable fragment", "date", report.FormatDay(fragment.Date), "error", err)
			missing = append(missing, fragment.Date)
			continue
		}
		rows = append(rows, parsed...)
	}
	return rows, missing, nil
}

// Dimensions projects rows to their dimensions, for agency listings.
func Dimensions(rows []Row) []report.Dimensions {
	out := make([]report.Dimensions, len(rows))
	for i, r := range rows {
		out[i] = r.Dimensions
	}
	return out
}
