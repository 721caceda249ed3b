package report

import (
	"fmt"
	"regexp"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/funnel"
)

// Scale selects whether series plot raw counts or percentages of the funnel's first step.
type Scale string

const (
	ScaleCount   Scale = "count"
	ScalePercent Scale = "percent"
)

// TimeBucket is the width of one point in a time series.
type TimeBucket string

const (
	BucketDay  TimeBucket = "day"
	BucketWeek TimeBucket = "week"
)

// DefaultIAL is the identity assurance level shown when none is selected.
const DefaultIAL = 1

// MaxRangeDays bounds the days a single filter may span.
const MaxRangeDays = 366

// env names become a path segment of every fragment key
var envPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateEnv checks that env is safe to use as a report path segment.
func ValidateEnv(env string) error {
	if !envPattern.MatchString(env) {
		return fmt.Errorf("invalid env %q (lowercase letters, digits, '-' and '_' only)", env)
	}
	return nil
}

// Filter is the full set of user-selected report parameters. It is passed by value into
// every transformation; nothing reads filter state from anywhere else.
type Filter struct {
	Start      time.Time
	Finish     time.Time
	Env        string
	Agency     string // empty means every agency
	IAL        int    // 0 means every IAL
	FunnelMode funnel.Mode
	Scale      Scale
	TimeBucket TimeBucket
	ByAgency   bool
	Cumulative bool
}

// WithDefaults fills unset fields with their defaults.
func (f Filter) WithDefaults() Filter {
	out := f
	if out.Env == "" {
		out.Env = DefaultEnv
	}
	if out.FunnelMode == "" {
		out.FunnelMode = funnel.Overall
	}
	if out.Scale == "" {
		out.Scale = ScaleCount
	}
	if out.TimeBucket == "" {
		out.TimeBucket = BucketDay
	}
	return out
}

// Validate checks the filter against def. It does not apply defaults.
func (f Filter) Validate(def funnel.Definition) error {
	if f.Start.IsZero() || f.Finish.IsZero() {
		return fmt.Errorf("start and finish are required")
	}
	if f.Finish.Before(f.Start) {
		return fmt.Errorf("finish %s is before start %s", FormatDay(f.Finish), FormatDay(f.Start))
	}
	if f.Finish.Sub(f.Start) > MaxRangeDays*24*time.Hour {
		return fmt.Errorf("range %s to %s exceeds %d days", FormatDay(f.Start), FormatDay(f.Finish), MaxRangeDays)
	}
	if f.Env != "" {
		if err := ValidateEnv(f.Env); err != nil {
			return err
		}
	}
	if f.IAL < 0 || f.IAL > 2 {
		return fmt.Errorf("invalid ial %d (must be 1 or 2)", f.IAL)
	}
	if _, err := def.ParseMode(string(f.FunnelMode)); err != nil {
		return err
	}
	switch f.Scale {
	case "", ScaleCount, ScalePercent:
	default:
		return fmt.Errorf("invalid scale %q (must be count or percent)", f.Scale)
	}
	switch f.TimeBucket {
	case "", BucketDay, BucketWeek:
	default:
		return fmt.Errorf("invalid time bucket %q (must be day or week)", f.TimeBucket)
	}
	return nil
}

// CacheKey identifies the filter tuple for in-flight request deduplication.
func (f Filter) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s|%s|%s|%t|%t",
		FormatDay(f.Start), FormatDay(f.Finish), f.Env, f.Agency, f.IAL,
		f.FunnelMode, f.Scale, f.TimeBucket, f.ByAgency, f.Cumulative)
}
