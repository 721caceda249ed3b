package dropoffs

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/idp-analytics/identity-reports/internal/core/format"
	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/grouping"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/samber/lo"
)

// Prepare applies the filter's agency and grouping to raw rows: one row per app, or one
// per agency when f.ByAgency is set.
func Prepare(rows []Row, def funnel.Definition, f report.Filter) []Row {
	filtered := lo.Filter(rows, func(r Row, _ int) bool {
		return f.Agency == "" || r.Agency == f.Agency
	})
	if f.ByAgency {
		return RollupByAgency(filtered, def.Keys())
	}
	return Aggregate(filtered, def.Keys(), ByIssuer)
}

// Tabulate renders the funnel table for f's funnel mode. Each step has a count column and,
// after the first step, a percent-of-first column. The footer totals every count column.
func Tabulate(rows []Row, def funnel.Definition, f report.Filter) table.Data {
	f = f.WithDefaults()
	steps := def.Steps(f.FunnelMode)

	prepared := slices.Clone(Prepare(rows, def, f))
	slices.SortFunc(prepared, func(a, b Row) int {
		return cmp.Or(cmp.Compare(a.Agency, b.Agency), cmp.Compare(a.FriendlyName, b.FriendlyName))
	})

	header := table.Row{
		table.Text("Agency"),
		table.Rich{Display: "App", ColSpan: 2, CSV: []string{"Issuer", "Friendly Name"}},
	}
	for idx, st := range steps {
		header = append(header, table.Rich{Display: st.Title, ColSpan: stepSpan(idx)})
	}

	body := make([]table.Row, 0, len(prepared))
	for _, r := range prepared {
		row := table.Row{
			table.Text(r.Agency),
			table.Rich{
				Display: r.FriendlyName,
				Title:   r.Issuer,
				ColSpan: 2,
				CSV:     []string{r.Issuer, r.FriendlyName},
			},
		}
		for idx, sc := range funnel.ToStepCounts(r.Count, steps) {
			background := table.PercentColor(sc.PercentOfFirst)
			row = append(row, table.Rich{
				Display:    format.Count(sc.Count),
				Background: background,
				CSV:        []string{strconv.FormatInt(sc.Count, 10)},
				Numeric:    true,
			})
			if idx > 0 {
				row = append(row, table.Rich{
					Display:    format.Percent(sc.PercentOfFirst),
					Background: background,
					CSV:        []string{strconv.FormatFloat(sc.PercentOfFirst, 'f', -1, 64)},
					Numeric:    true,
				})
			}
		}
		body = append(body, row)
	}

	footer := table.Row{table.Text("Total"), table.Rich{ColSpan: 2}}
	for idx, st := range steps {
		total := grouping.Sum(prepared, func(r Row) int64 { return r.Count(st.Key) })
		footer = append(footer, table.Int(total))
		if idx > 0 {
			footer = append(footer, table.Text(""))
		}
	}

	return table.Data{Header: header, Body: body, Footer: footer}
}

func stepSpan(idx int) int {
	if idx == 0 {
		return 1
	}
	return 2
}
