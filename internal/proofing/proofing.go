// Package proofing builds the proofing-over-time report: how many users completed
// identity proofing per day or week, from the daily dropoffs fragments.
package proofing

import (
	"cmp"
	"context"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/aggregation"
	"github.com/idp-analytics/identity-reports/internal/core/format"
	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/idp-analytics/identity-reports/internal/dropoffs"
	"github.com/idp-analytics/identity-reports/internal/loader"
	"github.com/shopspring/decimal"
)

// Entry is one funnel step of one row, dated by the row's start.
type Entry struct {
	Date         time.Time `json:"date"`
	Agency       string    `json:"agency"`
	Issuer       string    `json:"issuer"`
	FriendlyName string    `json:"friendly_name"`
	funnel.StepCount
}

// Flatten derives step counts for every row under mode.
func Flatten(rows []dropoffs.Row, def funnel.Definition, mode funnel.Mode) []Entry {
	steps := def.Steps(mode)

	entries := make([]Entry, 0, len(rows)*len(steps))
	for _, r := range rows {
		for _, sc := range funnel.ToStepCounts(r.Count, steps) {
			entries = append(entries, Entry{
				Date:         r.Start,
				Agency:       r.Agency,
				Issuer:       r.Issuer,
				FriendlyName: r.FriendlyName,
				StepCount:    sc,
			})
		}
	}
	return entries
}

// Load fetches the dropoffs fragments of the filter's range and flattens them per app and day.
func Load(ctx context.Context, l *loader.Loader, def funnel.Definition, f report.Filter) ([]Entry, []time.Time, error) {
	rows, missing, err := dropoffs.Load(ctx, l, f)
	if err != nil {
		return nil, nil, err
	}
	f = f.WithDefaults()
	daily := dropoffs.Aggregate(rows, def.Keys(), dropoffs.ByIssuerDay)
	return Flatten(daily, def, f.FunnelMode), missing, nil
}

// Series bins the verified step per day or per UTC week (starting Sunday). The percent
// scale averages PercentOfFirst across apps; the count scale sums Count. Series are split
// per agency when f.ByAgency is set.
func Series(entries []Entry, f report.Filter) []aggregation.Point {
	f = f.WithDefaults()

	bucket := aggregation.MustParseBucket(string(f.TimeBucket))
	op := aggregation.OpSum
	if f.Scale == report.ScalePercent {
		op = aggregation.OpMean
	}

	var samples []aggregation.Sample
	for _, e := range entries {
		if e.Step != funnel.Verified || (f.Agency != "" && e.Agency != f.Agency) {
			continue
		}
		s := aggregation.Sample{Time: e.Date, Value: aggregation.FromCount(e.Count)}
		if f.Scale == report.ScalePercent {
			s.Value = decimal.NewFromFloat(e.PercentOfFirst)
		}
		if f.ByAgency {
			s.Group = e.Agency
		}
		samples = append(samples, s)
	}
	return aggregation.Rollup(samples, bucket, op)
}

// Tabulate renders series points as Date [, Agency], value rows in date order per agency.
func Tabulate(points []aggregation.Point, def funnel.Definition, f report.Filter) table.Data {
	f = f.WithDefaults()

	valueLabel := cmp.Or(def.Title(funnel.Verified), "Verified")
	if f.Scale == report.ScalePercent {
		valueLabel += " (% of first step)"
	}

	header := table.Texts("Date")
	if f.ByAgency {
		header = append(header, table.Text("Agency"))
	}
	header = append(header, table.Text(valueLabel))

	body := make([]table.Row, 0, len(points))
	for _, p := range points {
		row := table.Row{table.Text(format.Date(p.Start))}
		if f.ByAgency {
			row = append(row, table.Text(p.Group))
		}
		value := p.Value.InexactFloat64()
		if f.Scale == report.ScalePercent {
			row = append(row, table.Rich{
				Display: format.Percent(value),
				CSV:     []string{p.Value.String()},
				Numeric: true,
			})
		} else {
			row = append(row, table.Number(value))
		}
		body = append(body, row)
	}
	return table.Data{Header: header, Body: body}
}
