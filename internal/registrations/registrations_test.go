package registrations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/idp-analytics/identity-reports/internal/loader"
	"github.com/stretchr/testify/require"
)

func TestParse_CumulativeInDateOrder(t *testing.T) {
	results, err := Parse([]byte(`{
		"finish": "2020-01-03",
		"results": [
			{"date": "2020-01-02", "total_users": 6, "fully_registered_users": 2, "deleted_users": 1},
			{"date": "2020-01-01", "total_users": 5, "fully_registered_users": 1}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, report.MustParseDay("2020-01-01"), results[0].Date)
	require.Equal(t, int64(5), results[0].TotalUsersCumulative)
	require.Equal(t, int64(1), results[0].FullyRegisteredUsersCumulative)
	require.Equal(t, int64(11), results[1].TotalUsersCumulative)
	require.Equal(t, int64(3), results[1].FullyRegisteredUsersCumulative)
	require.Equal(t, int64(1), results[1].DeletedUsers)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"results":[{"date":"soon"}]}`))
	require.Error(t, err)

	results, err := Parse([]byte(`{"results":[]}`))
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestTabulate(t *testing.T) {
	results := []Result{
		{Date: report.MustParseDay("2020-01-01"), TotalUsers: 5, TotalUsersCumulative: 10, FullyRegisteredUsers: 1, FullyRegisteredUsersCumulative: 2},
		{Date: report.MustParseDay("2020-01-02"), TotalUsers: 6, TotalUsersCumulative: 17, FullyRegisteredUsers: 2, FullyRegisteredUsersCumulative: 4},
	}

	data := Tabulate(results)
	require.Equal(t, table.Texts("", "2020-01-01", "2020-01-02"), data.Header)
	require.Equal(t, []table.Row{
		{table.Text("New Users"), table.Int(5), table.Int(6)},
		{table.Text("New Fully Registered Users"), table.Int(1), table.Int(2)},
		{table.Text("Cumulative Users"), table.Int(10), table.Int(17)},
		{table.Text("Cumulative Fully Registered Users"), table.Int(2), table.Int(4)},
	}, data.Body)
	require.NoError(t, data.Validate())
}

func TestWindow(t *testing.T) {
	results := Process([]Result{
		{Date: report.MustParseDay("2020-01-01"), TotalUsers: 1},
		{Date: report.MustParseDay("2020-01-02"), TotalUsers: 1},
		{Date: report.MustParseDay("2020-01-03"), TotalUsers: 1},
		{Date: report.MustParseDay("2020-01-04"), TotalUsers: 1},
	})

	windowed := Window(results, report.MustParseDay("2020-01-02"), report.MustParseDay("2020-01-03"))
	require.Len(t, windowed, 2)
	require.Equal(t, int64(2), windowed[0].TotalUsersCumulative, "cumulative sums keep history before the window")
	require.Equal(t, int64(3), windowed[1].TotalUsersCumulative)
}

func TestSeries(t *testing.T) {
	results := Process([]Result{
		{Date: report.MustParseDay("2020-01-01"), TotalUsers: 5, FullyRegisteredUsers: 1},
		{Date: report.MustParseDay("2020-01-02"), TotalUsers: 6, FullyRegisteredUsers: 2},
	})

	daily := Series(results, false)
	require.Len(t, daily, 4)
	require.Equal(t, SeriesTotalUsers, daily[2].Group)
	require.Equal(t, "6", daily[2].Value.String())

	cumulative := Series(results, true)
	require.Len(t, cumulative, 4)
	require.Equal(t, SeriesTotalUsersCumulative, cumulative[2].Group)
	require.Equal(t, "11", cumulative[2].Value.String())
}

func TestWeeklyDeletionRates(t *testing.T) {
	var results []Result
	for day := 2; day <= 15; day++ {
		r := Result{Date: report.MustParseDay(fmt.Sprintf("2023-01-%02d", day)), FullyRegisteredUsers: 100}
		switch day {
		case 2:
			r.DeletedUsers = 7
		case 9:
			r.DeletedUsers = 14
		}
		results = append(results, r)
	}

	rates := WeeklyDeletionRates(results)
	require.Equal(t, []DeletionRate{
		{WeekStart: report.MustParseDay("2023-01-02"), Value: 0.01},
		{WeekStart: report.MustParseDay("2023-01-09"), Value: 0.02},
	}, rates)

	data := TabulateDeletions(rates)
	require.Equal(t, table.Texts("Date", "Percent"), data.Header)
	require.Equal(t, []table.Row{
		{table.Text("2023-01-02"), table.Number(0.01)},
		{table.Text("2023-01-09"), table.Number(0.02)},
	}, data.Body)
}

func TestWeeklyDeletionRates_ZeroDenominator(t *testing.T) {
	rates := WeeklyDeletionRates([]Result{{Date: report.MustParseDay("2023-01-02"), DeletedUsers: 3}})
	require.Len(t, rates, 1)
	require.Equal(t, 0.0, rates[0].Value)

	require.Empty(t, WeeklyDeletionRates(nil))
}

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/prod/daily-registrations-report/2020/2020-01-03.daily-registrations-report.json" {
			_, _ = w.Write([]byte(`{"results":[{"date":"2020-01-01","total_users":5}]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	l := loader.New(loader.NewHTTPFetcher(srv.URL, srv.Client(), time.Second), 1)

	results, missing, err := Load(context.Background(), l, report.Filter{Finish: report.MustParseDay("2020-01-03")})
	require.NoError(t, err)
	require.Empty(t, missing)
	require.Len(t, results, 1)

	results, missing, err = Load(context.Background(), l, report.Filter{Finish: report.MustParseDay("2020-01-04")})
	require.NoError(t, err, "a non-200 yields no rows")
	require.Empty(t, results)
	require.Equal(t, []time.Time{report.MustParseDay("2020-01-04")}, missing)
}
