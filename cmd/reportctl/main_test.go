package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/idp-analytics/identity-reports/internal/dashboard"
	"github.com/stretchr/testify/require"
)

const authsFixture = `{"start":"2021-01-01","results":[
	{"count":1234,"ial":1,"agency":"A","issuer":"x","friendly_name":"X"},
	{"count":2,"ial":2,"agency":"B","issuer":"y","friendly_name":"Y"}
]}`

// writeFixtures creates a filesystem report root holding one auths fragment and returns
// the path of a config pointing at it.
func writeFixtures(t *testing.T) string {
	root := t.TempDir()
	key := report.Key{Name: report.DailyAuths, Ext: report.ExtJSON, Date: report.MustParseDay("2021-01-01")}
	path := filepath.Join(root, filepath.FromSlash(key.Path()))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(authsFixture), 0o644))

	configPath := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("reports:\n  source: filesystem\n  root_dir: "+root+"\n"), 0o644))
	return configPath
}

func twoDays() filterFlags {
	return filterFlags{start: "2021-01-01", finish: "2021-01-03"}
}

func TestRunExport_Stdout(t *testing.T) {
	var stdout, stderr bytes.Buffer
	flags := twoDays()
	flags.agency = "A"

	err := runExport(context.Background(), exportParams{
		configPath: writeFixtures(t),
		report:     report.DailyAuths,
		filter:     flags,
		out:        "-",
		stdout:     &stdout,
		stderr:     &stderr,
	})
	require.NoError(t, err)
	require.Equal(t, "Agency,App,IAL,2021-01-01,Total\nA,X,1,1234,1234\n", stdout.String())
	require.Contains(t, stderr.String(), "missing days: 2021-01-02")
}

func TestRunExport_File(t *testing.T) {
	var stdout, stderr bytes.Buffer
	dir := t.TempDir()

	err := runExport(context.Background(), exportParams{
		configPath: writeFixtures(t),
		report:     report.DailyAuths,
		filter:     twoDays(),
		out:        dir,
		stdout:     &stdout,
		stderr:     &stderr,
	})
	require.NoError(t, err)

	want := filepath.Join(dir, table.Filename(report.DailyAuths, report.MustParseDay("2021-01-01"), report.MustParseDay("2021-01-03")))
	require.Equal(t, want+"\n", stdout.String())

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "Agency,IAL,2021-01-01,Total\n"))
}

func TestRunExport_Errors(t *testing.T) {
	configPath := writeFixtures(t)
	var stdout, stderr bytes.Buffer

	bad := twoDays()
	bad.start = "01/01/2021"
	err := runExport(context.Background(), exportParams{configPath: configPath, report: report.DailyAuths, filter: bad, out: "-", stdout: &stdout, stderr: &stderr})
	require.ErrorContains(t, err, "--start")

	err = runExport(context.Background(), exportParams{configPath: configPath, report: "nope", filter: twoDays(), out: "-", stdout: &stdout, stderr: &stderr})
	require.ErrorIs(t, err, dashboard.ErrUnknownReport)
}

func TestRunShow(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := runShow(context.Background(), showParams{
		configPath: writeFixtures(t),
		report:     report.DailyAuths,
		filter:     twoDays(),
		numbers:    numbersCommas,
		stdout:     &stdout,
		stderr:     &stderr,
	})
	require.NoError(t, err)

	out := stdout.String()
	require.Contains(t, out, "daily-auths-report  2021-01-01 to 2021-01-03")
	require.Contains(t, out, "Agency")
	require.Contains(t, out, "1,234")
	require.Contains(t, out, "(all)")
}

func TestNumberFormatter(t *testing.T) {
	f, err := numberFormatter(report.DailyAuths, numbersSI)
	require.NoError(t, err)
	require.Equal(t, "1.2k", f(1234))

	f, err = numberFormatter(report.DailyAuths, "")
	require.NoError(t, err)
	require.Equal(t, "1,234", f(1234))

	f, err = numberFormatter(dashboard.AccountDeletions, numbersSI)
	require.NoError(t, err)
	require.Equal(t, "1.23%", f(0.0123))

	_, err = numberFormatter(report.DailyAuths, "roman")
	require.Error(t, err)
}

func TestRenderTable_SpansAndFooter(t *testing.T) {
	data := table.Data{
		Header: table.Row{table.Text("Agency"), table.Rich{Display: "App", ColSpan: 2}},
		Body:   []table.Row{{table.Text("A"), table.Rich{Display: "X", ColSpan: 2, Background: "#4682b4"}}},
		Footer: table.Row{table.Text("Total"), table.Number(1000)},
	}
	data.Footer = append(data.Footer, table.Text(""))

	out := renderTable(data, nil)
	require.Contains(t, out, "Agency")
	require.Contains(t, out, "Total")
	require.Contains(t, out, "1000")
}

func TestRootCmd_Reports(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"reports"})

	require.NoError(t, root.Execute())
	require.Equal(t, strings.Join(dashboard.Reports(), "\n")+"\n", stdout.String())
}

func TestRootCmd_ExportRequiresRange(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"export", report.DailyAuths})

	require.Error(t, root.Execute())
}
