// Package dashboard serves rendered reports: it turns a filter into fetched fragments,
// runs the report's pipeline and returns the table with its partial-data marker.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/idp-analytics/identity-reports/internal/auths"
	"github.com/idp-analytics/identity-reports/internal/core/aggregation"
	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/dropoffs"
	"github.com/idp-analytics/identity-reports/internal/loader"
	"github.com/idp-analytics/identity-reports/internal/proofing"
	"github.com/idp-analytics/identity-reports/internal/registrations"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidQuery marks filter validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid report query")
	// ErrUnknownReport is returned for a report name the service does not render.
	ErrUnknownReport = errors.New("unknown report")
	// ErrUpstream marks a published document that was fetched but could not be read.
	ErrUpstream = errors.New("report source unreadable")
)

// builder renders one report. missing lists the days that could not be loaded.
type builder func(ctx context.Context, s *Service, f report.Filter) (out *Response, missing []time.Time, err error)

var builders = map[string]builder{
	report.DailyAuths:         buildAuths,
	report.DailyDropoffs:      buildDropoffs,
	ProofingOverTime:          buildProofing,
	report.DailyRegistrations: buildRegistrations,
	AccountDeletions:          buildDeletions,
}

// Reports returns the names of every report the service renders, sorted.
func Reports() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Service renders reports from a loader. Concurrent identical requests share one run.
type Service struct {
	loader *loader.Loader
	def    funnel.Definition
	env    string
	flight singleflight.Group

	buildTimeout time.Duration
}

// DefaultBuildTimeout bounds one shared report run.
const DefaultBuildTimeout = 2 * time.Minute

// NewService creates a report service. env is used when a filter names no environment.
func NewService(l *loader.Loader, def funnel.Definition, env string) *Service {
	if env == "" {
		env = report.DefaultEnv
	}
	return &Service{loader: l, def: def, env: env, buildTimeout: DefaultBuildTimeout}
}

// Definition returns the funnel definition reports are rendered with.
func (s *Service) Definition() funnel.Definition {
	return s.def
}

// Table renders reportName for f. The returned response is shared with concurrent callers
// of the same query and must not be modified.
func (s *Service) Table(ctx context.Context, reportName string, f report.Filter) (*Response, error) {
	build, ok := builders[reportName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, reportName)
	}

	f, err := s.normalize(f)
	if err != nil {
		return nil, err
	}

	v, err := s.shared(ctx, reportName+"|"+f.CacheKey(), func(ctx context.Context) (interface{}, error) {
		resp, missing, err := build(ctx, s, f)
		if err != nil {
			return nil, err
		}
		resp.Report = reportName
		resp.Start = report.FormatDay(f.Start)
		resp.Finish = report.FormatDay(f.Finish)
		resp.MissingDays = missingDays(missing)
		resp.Partial = len(resp.MissingDays) > 0
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

// Agencies returns the distinct agencies found in the authentication counts of f's range.
func (s *Service) Agencies(ctx context.Context, f report.Filter) (*AgenciesResponse, error) {
	f, err := s.normalize(f)
	if err != nil {
		return nil, err
	}

	v, err := s.shared(ctx, "agencies|"+f.CacheKey(), func(ctx context.Context) (interface{}, error) {
		rows, _, err := auths.Load(ctx, s.loader, f)
		if err != nil {
			return nil, err
		}
		return &AgenciesResponse{
			Start:    report.FormatDay(f.Start),
			Finish:   report.FormatDay(f.Finish),
			Agencies: report.Agencies(auths.Dimensions(rows)),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*AgenciesResponse), nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context that outlives
// any single caller, bounded by the service's build timeout; each caller still returns as
// soon as its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout)
		defer cancel()
		return fn(runCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (s *Service) normalize(f report.Filter) (report.Filter, error) {
	if err := f.Validate(s.def); err != nil {
		return f, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if f.Env == "" {
		f.Env = s.env
	}
	f.Start = report.TruncateToDay(f.Start)
	f.Finish = report.TruncateToDay(f.Finish)
	return f.WithDefaults(), nil
}

func missingDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, report.FormatDay(d))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func buildAuths(ctx context.Context, s *Service, f report.Filter) (*Response, []time.Time, error) {
	rows, missing, err := auths.Load(ctx, s.loader, f)
	if err != nil {
		return nil, nil, err
	}

	// missing days still appear in the series, as zero
	resp := &Response{Series: aggregation.FillRange(auths.Series(rows, f), aggregation.Day, f.Start, f.Finish)}
	if f.Agency != "" {
		resp.Table = auths.Tabulate(rows, f)
		return resp, missing, nil
	}

	summary := auths.TabulateSum(rows, f)
	resp.Table = auths.TabulateSumByAgency(rows, f)
	resp.Summary = &summary
	return resp, missing, nil
}

func buildDropoffs(ctx context.Context, s *Service, f report.Filter) (*Response, []time.Time, error) {
	rows, missing, err := dropoffs.Load(ctx, s.loader, f)
	if err != nil {
		return nil, nil, err
	}
	return &Response{Table: dropoffs.Tabulate(rows, s.def, f)}, missing, nil
}

func buildProofing(ctx context.Context, s *Service, f report.Filter) (*Response, []time.Time, error) {
	entries, missing, err := proofing.Load(ctx, s.loader, s.def, f)
	if err != nil {
		return nil, nil, err
	}
	points := proofing.Series(entries, f)
	return &Response{Table: proofing.Tabulate(points, s.def, f), Series: points}, missing, nil
}

func loadRegistrations(ctx context.Context, s *Service, f report.Filter) ([]registrations.Result, []time.Time, error) {
	results, missing, err := registrations.Load(ctx, s.loader, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return registrations.Window(results, f.Start, f.Finish), missing, nil
}

func buildRegistrations(ctx context.Context, s *Service, f report.Filter) (*Response, []time.Time, error) {
	results, missing, err := loadRegistrations(ctx, s, f)
	if err != nil {
		return nil, nil, err
	}
	return &Response{
		Table:  registrations.Tabulate(results),
		Series: registrations.Series(results, f.Cumulative),
	}, missing, nil
}

func buildDeletions(ctx context.Context, s *Service, f report.Filter) (*Response, []time.Time, error) {
	results, missing, err := loadRegistrations(ctx, s, f)
	if err != nil {
		return nil, nil, err
	}
	rates := registrations.WeeklyDeletionRates(results)
	return &Response{Table: registrations.TabulateDeletions(rates)}, missing, nil
}
