package registrations

import (
	"github.com/idp-analytics/identity-reports/internal/core/aggregation"
	"github.com/idp-analytics/identity-reports/internal/core/format"
	"github.com/idp-analytics/identity-reports/internal/core/table"
)

// Series names for the registrations chart.
const (
	SeriesTotalUsers                     = "Total Users"
	SeriesTotalUsersCumulative           = "Total Users (cumulative)"
	SeriesFullyRegisteredUsers           = "Fully Registered Users"
	SeriesFullyRegisteredUsersCumulative = "Fully Registered Users (cumulative)"
)

// Tabulate lays out results, already windowed and sorted, as one column per day and the
// four measures as rows.
func Tabulate(results []Result) table.Data {
	header := table.Row{table.Text("")}
	rows := []struct {
		label string
		value func(Result) int64
	}{
		{"New Users", func(r Result) int64 { return r.TotalUsers }},
		{"New Fully Registered Users", func(r Result) int64 { return r.FullyRegisteredUsers }},
		{"Cumulative Users", func(r Result) int64 { return r.TotalUsersCumulative }},
		{"Cumulative Fully Registered Users", func(r Result) int64 { return r.FullyRegisteredUsersCumulative }},
	}

	for _, r := range results {
		header = append(header, table.Text(format.Date(r.Date)))
	}

	body := make([]table.Row, 0, len(rows))
	for _, measure := range rows {
		row := table.Row{table.Text(measure.label)}
		for _, r := range results {
			row = append(row, table.Int(measure.value(r)))
		}
		body = append(body, row)
	}
	return table.Data{Header: header, Body: body}
}

// Series returns the chart points: daily counts, or the running totals when cumulative.
func Series(results []Result, cumulative bool) []aggregation.Point {
	points := make([]aggregation.Point, 0, 2*len(results))
	for _, r := range results {
		if cumulative {
			points = append(points,
				point(r, SeriesTotalUsersCumulative, r.TotalUsersCumulative),
				point(r, SeriesFullyRegisteredUsersCumulative, r.FullyRegisteredUsersCumulative))
			continue
		}
		points = append(points,
			point(r, SeriesTotalUsers, r.TotalUsers),
			point(r, SeriesFullyRegisteredUsers, r.FullyRegisteredUsers))
	}
	return points
}

func point(r Result, group string, value int64) aggregation.Point {
	return aggregation.Point{Start: r.Date, Group: group, Value: aggregation.FromCount(value), Samples: 1}
}
