package dropoffs

import (
	"cmp"
	"slices"

	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/grouping"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/samber/lo"
)

// KeyFunc picks the aggregation bucket of a row.
type KeyFunc func(Row) string

// ByIssuer sums an app's rows across every day.
func ByIssuer(r Row) string { return r.Issuer }

// ByIssuerDay sums an app's rows within one UTC day.
func ByIssuerDay(r Row) string { return r.Issuer + "|" + report.FormatDay(r.Start) }

// Aggregate sums the counts of rows sharing a key. Every step in steps is present in the
// output even when no input row had it. Dimensions and dates come from the first row of
// each bucket. Output is ordered by issuer, friendly name, then start.
func Aggregate(rows []Row, steps []funnel.Step, key KeyFunc) []Row {
	buckets := lo.GroupBy(rows, key)

	out := make([]Row, 0, len(buckets))
	for _, bin := range buckets {
		first := bin[0]
		out = append(out, Row{
			Dimensions: first.Dimensions,
			Start:      first.Start,
			Finish:     first.Finish,
			Counts:     sumCounts(bin, steps),
		})
	}

	slices.SortFunc(out, func(a, b Row) int {
		return cmp.Or(
			cmp.Compare(a.Issuer, b.Issuer),
			cmp.Compare(a.FriendlyName, b.FriendlyName),
			a.Start.Compare(b.Start),
		)
	})
	return out
}

var byAgency = grouping.ByString(func(r Row) string { return r.Agency })

// RollupByAgency sums rows into one row per agency whose issuer and app are report.All.
// The row spans the earliest start to the latest finish of its inputs.
func RollupByAgency(rows []Row, steps []funnel.Step) []Row {
	leaves := grouping.Rollup(rows, func(bin []Row) Row {
		row := Row{
			Dimensions: report.Dimensions{Agency: bin[0].Agency, Issuer: report.All, FriendlyName: report.All},
			Start:      bin[0].Start,
			Finish:     bin[0].Finish,
			Counts:     sumCounts(bin, steps),
		}
		for _, r := range bin[1:] {
			if r.Start.Before(row.Start) {
				row.Start = r.Start
			}
			if r.Finish.After(row.Finish) {
				row.Finish = r.Finish
			}
		}
		return row
	}, byAgency)

	return lo.Map(leaves, func(leaf grouping.Leaf[Row], _ int) Row { return leaf.Value })
}

func sumCounts(bin []Row, steps []funnel.Step) map[funnel.Step]int64 {
	counts := make(map[funnel.Step]int64, len(steps))
	for _, step := range steps {
		counts[step] = 0
	}
	for _, r := range bin {
		for step, c := range r.Counts {
			counts[step] += c
		}
	}
	return counts
}
