package registrations

import (
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/aggregation"
	"github.com/idp-analytics/identity-reports/internal/core/format"
	"github.com/idp-analytics/identity-reports/internal/core/table"
)

// DeletionRate is the share of fully registered users deleted in the week starting WeekStart.
type DeletionRate struct {
	WeekStart time.Time `json:"week_start"`
	Value     float64   `json:"value"`
}

// WeeklyDeletionRates sums deletions and full registrations per UTC week starting Monday
// and divides them. A week with no full registrations has a rate of 0.
func WeeklyDeletionRates(results []Result) []DeletionRate {
	var deleted, registered []aggregation.Sample
	for _, r := range results {
		deleted = append(deleted, aggregation.Sample{Time: r.Date, Value: aggregation.FromCount(r.DeletedUsers)})
		registered = append(registered, aggregation.Sample{Time: r.Date, Value: aggregation.FromCount(r.FullyRegisteredUsers)})
	}

	deletedByWeek := aggregation.Rollup(deleted, aggregation.MondayWeek, aggregation.OpSum)
	registeredByWeek := aggregation.Rollup(registered, aggregation.MondayWeek, aggregation.OpSum)

	// both rollups see the same sample times, so their buckets line up
	rates := make([]DeletionRate, len(deletedByWeek))
	for i, week := range deletedByWeek {
		rates[i] = DeletionRate{
			WeekStart: week.Start,
			Value:     aggregation.Ratio(week.Value, registeredByWeek[i].Value).InexactFloat64(),
		}
	}
	return rates
}

// TabulateDeletions renders one row per week.
func TabulateDeletions(rates []DeletionRate) table.Data {
	body := make([]table.Row, 0, len(rates))
	for _, r := range rates {
		body = append(body, table.Row{table.Text(format.Date(r.WeekStart)), table.Number(r.Value)})
	}
	return table.Data{Header: table.Texts("Date", "Percent"), Body: body}
}
