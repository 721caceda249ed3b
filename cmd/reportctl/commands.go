package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/idp-analytics/identity-reports/internal/app"
	"github.com/idp-analytics/identity-reports/internal/core/config"
	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/idp-analytics/identity-reports/internal/dashboard"
	"github.com/spf13/cobra"
)

// filterFlags holds the report filter flags shared by export and show.
type filterFlags struct {
	start      string
	finish     string
	env        string
	agency     string
	ial        int
	funnelMode string
	scale      string
	timeBucket string
	byAgency   bool
	cumulative bool
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.start, "start", "", "First day of the range (YYYY-MM-DD)")
	flags.StringVar(&f.finish, "finish", "", "Day after the last day of the range (YYYY-MM-DD)")
	flags.StringVar(&f.env, "env", "", "Report environment (defaults to the configured env)")
	flags.StringVar(&f.agency, "agency", "", "Only include this agency")
	flags.IntVar(&f.ial, "ial", 0, "Only include this IAL (1 or 2)")
	flags.StringVar(&f.funnelMode, "funnel-mode", "", "Funnel mode (overall or blanket)")
	flags.StringVar(&f.scale, "scale", "", "Series scale (count or percent)")
	flags.StringVar(&f.timeBucket, "time-bucket", "", "Series bucket (day or week)")
	flags.BoolVar(&f.byAgency, "by-agency", false, "Roll rows up per agency")
	flags.BoolVar(&f.cumulative, "cumulative", false, "Use running totals where supported")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("finish")
}

func (f *filterFlags) filter() (report.Filter, error) {
	start, err := report.ParseDay(f.start)
	if err != nil {
		return report.Filter{}, fmt.Errorf("invalid --start %q: %w", f.start, err)
	}
	finish, err := report.ParseDay(f.finish)
	if err != nil {
		return report.Filter{}, fmt.Errorf("invalid --finish %q: %w", f.finish, err)
	}
	return report.Filter{
		Start:      start,
		Finish:     finish,
		Env:        f.env,
		Agency:     f.agency,
		IAL:        f.ial,
		FunnelMode: funnel.Mode(f.funnelMode),
		Scale:      report.Scale(f.scale),
		TimeBucket: report.TimeBucket(f.timeBucket),
		ByAgency:   f.byAgency,
		Cumulative: f.cumulative,
	}, nil
}

func loadApp(configPath string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

// renderReport loads the app and renders one report, noting partial data on stderr.
func renderReport(ctx context.Context, configPath, name string, flags filterFlags, stderr io.Writer) (*dashboard.Response, report.Filter, error) {
	f, err := flags.filter()
	if err != nil {
		return nil, f, err
	}

	a, err := loadApp(configPath)
	if err != nil {
		return nil, f, err
	}
	defer a.Close()

	resp, err := a.Dashboard.Table(ctx, name, f)
	if err != nil {
		return nil, f, err
	}
	if resp.Partial {
		fmt.Fprintf(stderr, "warning: partial data, missing days: %s\n", strings.Join(resp.MissingDays, ", "))
	}
	return resp, f, nil
}

// exportParams holds the parsed flags for the export command.
type exportParams struct {
	configPath string
	report     string
	filter     filterFlags
	out        string
	stdout     io.Writer
	stderr     io.Writer
}

// runExport is the testable body of the export command. With out "-" the CSV goes to
// stdout; otherwise it is written into the out directory under its download name.
func runExport(ctx context.Context, p exportParams) error {
	resp, f, err := renderReport(ctx, p.configPath, p.report, p.filter, p.stderr)
	if err != nil {
		return err
	}

	if p.out == "-" {
		return table.WriteCSV(p.stdout, resp.Table)
	}

	path := filepath.Join(p.out, table.Filename(p.report, f.Start, f.Finish))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := table.WriteCSV(file, resp.Table); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintln(p.stdout, path)
	return nil
}

func newExportCmd(configPath *string) *cobra.Command {
	var (
		flags filterFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export REPORT",
		Short: "Export a report table as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), exportParams{
				configPath: *configPath,
				report:     args[0],
				filter:     flags,
				out:        out,
				stdout:     cmd.OutOrStdout(),
				stderr:     cmd.ErrOrStderr(),
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&out, "out", ".", `Output directory, or "-" for stdout`)
	return cmd
}

// showParams holds the parsed flags for the show command.
type showParams struct {
	configPath string
	report     string
	filter     filterFlags
	numbers    string
	stdout     io.Writer
	stderr     io.Writer
}

func runShow(ctx context.Context, p showParams) error {
	formatter, err := numberFormatter(p.report, p.numbers)
	if err != nil {
		return err
	}

	resp, _, err := renderReport(ctx, p.configPath, p.report, p.filter, p.stderr)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.stdout, titleStyle.Render(fmt.Sprintf("%s  %s to %s", resp.Report, resp.Start, resp.Finish)))
	fmt.Fprintln(p.stdout, renderTable(resp.Table, formatter))
	if resp.Summary != nil {
		fmt.Fprintln(p.stdout, renderTable(*resp.Summary, formatter))
	}
	return nil
}

func newShowCmd(configPath *string) *cobra.Command {
	var (
		flags   filterFlags
		numbers string
	)

	cmd := &cobra.Command{
		Use:   "show REPORT",
		Short: "Render a report table in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), showParams{
				configPath: *configPath,
				report:     args[0],
				filter:     flags,
				numbers:    numbers,
				stdout:     cmd.OutOrStdout(),
				stderr:     cmd.ErrOrStderr(),
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&numbers, "numbers", numbersCommas, "Number format (commas or si)")
	return cmd
}

func runArchive(ctx context.Context, configPath, start, finish string, stdout io.Writer) error {
	startDay, err := report.ParseDay(start)
	if err != nil {
		return fmt.Errorf("invalid --start %q: %w", start, err)
	}
	finishDay, err := report.ParseDay(finish)
	if err != nil {
		return fmt.Errorf("invalid --finish %q: %w", finish, err)
	}

	a, err := loadApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := a.ArchiveJob()
	if err != nil {
		return err
	}
	stats, err := job.Run(ctx, startDay, finishDay)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "archived %d, already held %d, unpublished %d, failed %d\n",
		stats.Archived, stats.AlreadyHeld, stats.Unpublished, stats.Failed)
	return nil
}

func newArchiveCmd(configPath *string) *cobra.Command {
	var start, finish string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Copy published fragments into the fragment store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runArchive(cmd.Context(), *configPath, start, finish, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First day to archive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&finish, "finish", "", "Day after the last day to archive (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("finish")
	return cmd
}

func newReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List the report names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range dashboard.Reports() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
