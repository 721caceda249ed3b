package auths

import (
	"github.com/idp-analytics/identity-reports/internal/core/aggregation"
	"github.com/idp-analytics/identity-reports/internal/core/report"
)

// Series sums counts per UTC day for the chart. Only one IAL is plotted (DefaultIAL when
// the filter has none). Series are split by app when an agency is selected, otherwise by
// agency.
func Series(rows []Row, f report.Filter) []aggregation.Point {
	ial := f.IAL
	if ial == 0 {
		ial = report.DefaultIAL
	}

	samples := make([]aggregation.Sample, 0, len(rows))
	for _, r := range Filter(rows, report.Filter{Agency: f.Agency, IAL: ial}) {
		group := r.Agency
		if f.Agency != "" {
			group = r.FriendlyName
		}
		samples = append(samples, aggregation.Sample{
			Time:  r.Date,
			Group: group,
			Value: aggregation.FromCount(r.Count),
		})
	}
	return aggregation.Rollup(samples, aggregation.Day, aggregation.OpSum)
}
