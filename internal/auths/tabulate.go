package auths

import (
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/format"
	"github.com/idp-analytics/identity-reports/internal/core/grouping"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/samber/lo"
)

var (
	byAgency = grouping.ByString(func(r Row) string { return r.Agency })
	byIssuer = grouping.ByString(func(r Row) string { return r.Issuer })
	byIAL    = grouping.ByInt(func(r Row) int { return r.IAL })
)

func rowDate(r Row) time.Time { return r.Date }
func rowCount(r Row) int64    { return r.Count }

// Filter keeps the rows matching f's agency and IAL. Zero values match everything.
func Filter(rows []Row, f report.Filter) []Row {
	return lo.Filter(rows, func(r Row, _ int) bool {
		return (f.Agency == "" || r.Agency == f.Agency) && (f.IAL == 0 || r.IAL == f.IAL)
	})
}

// Tabulate renders one row per agency, app and IAL with a count per day and a total.
func Tabulate(rows []Row, f report.Filter) table.Data {
	filtered := Filter(rows, f)
	days := grouping.DateColumns(filtered, rowDate)

	friendlyNames := make(map[string]string, len(filtered))
	for _, r := range filtered {
		friendlyNames[r.Issuer] = r.FriendlyName
	}

	data := table.Data{Header: header([]string{"Agency", "App", "IAL"}, days), Body: []table.Row{}}
	for _, leaf := range grouping.Flatten(grouping.Group(filtered, byAgency, byIssuer, byIAL)) {
		agency, issuer, ial := leaf.Keys[0], leaf.Keys[1], leaf.Keys[2]
		row := table.Row{
			table.Text(agency),
			table.Rich{Display: friendlyNames[issuer], Title: issuer},
			table.Text(ial),
		}
		data.Body = append(data.Body, append(row, countCells(days, leaf.Value)...))
	}
	return data
}

// TabulateSumByAgency renders one row per agency and IAL, summed across apps. Only the
// IAL filter applies.
func TabulateSumByAgency(rows []Row, f report.Filter) table.Data {
	filtered := Filter(rows, report.Filter{IAL: f.IAL})
	days := grouping.DateColumns(filtered, rowDate)

	data := table.Data{Header: header([]string{"Agency", "IAL"}, days), Body: []table.Row{}}
	for _, leaf := range grouping.Flatten(grouping.Group(filtered, byAgency, byIAL)) {
		row := table.Row{table.Text(leaf.Keys[0]), table.Text(leaf.Keys[1])}
		data.Body = append(data.Body, append(row, countCells(days, leaf.Value)...))
	}
	return data
}

// TabulateSum renders one row per IAL summed across every agency and app.
func TabulateSum(rows []Row, f report.Filter) table.Data {
	filtered := Filter(rows, report.Filter{IAL: f.IAL})
	days := grouping.DateColumns(filtered, rowDate)

	data := table.Data{Header: header([]string{"Agency", "IAL"}, days), Body: []table.Row{}}
	for _, leaf := range grouping.Flatten(grouping.Group(filtered, byIAL)) {
		row := table.Row{table.Text(report.All), table.Text(leaf.Keys[0])}
		data.Body = append(data.Body, append(row, countCells(days, leaf.Value)...))
	}
	return data
}

func header(labels []string, days []time.Time) table.Row {
	row := table.Texts(labels...)
	for _, day := range days {
		row = append(row, table.Text(format.Date(day)))
	}
	return append(row, table.Text("Total"))
}

func countCells(days []time.Time, rows []Row) table.Row {
	counts, total := grouping.Spread(days, rows, rowDate, rowCount)
	cells := make(table.Row, 0, len(counts)+1)
	for _, c := range counts {
		cells = append(cells, table.Int(c))
	}
	return append(cells, table.Int(total))
}
