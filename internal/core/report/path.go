package report

import (
	"errors"
	"fmt"
	"time"
)

// Published report names.
const (
	DailyAuths         = "daily-auths-report"
	DailyDropoffs      = "daily-dropoffs-report"
	DailyRegistrations = "daily-registrations-report"
)

// Report document extensions.
const (
	ExtJSON = "json"
	ExtCSV  = "csv"
)

// DefaultEnv is the environment reports are read from when none is given.
const DefaultEnv = "prod"

// Key identifies one published report fragment.
type Key struct {
	Name string
	Date time.Time
	Env  string
	Ext  string
}

// Path returns the store-relative location of the fragment, e.g.
// /prod/daily-auths-report/2021/2021-07-27.daily-auths-report.json
func (k Key) Path() string {
	env := k.Env
	if env == "" {
		env = DefaultEnv
	}
	ext := k.Ext
	if ext == "" {
		ext = ExtJSON
	}
	date := k.Date.UTC()
	return fmt.Sprintf("/%s/%s/%04d/%s.%s.%s", env, k.Name, date.Year(), FormatDay(date), k.Name, ext)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.Path()
}

// ErrNotFound means no fragment is published for a key.
var ErrNotFound = errors.New("report fragment not found")
