package dashboard

import (
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/aggregation"
	"github.com/idp-analytics/identity-reports/internal/core/table"
)

// Report names served next to the published ones.
const (
	ProofingOverTime = "proofing-over-time"
	AccountDeletions = "account-deletions"
)

// Output formats of the report endpoint.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ReportQuery is the query string of GET /v1/reports/:report.
type ReportQuery struct {
	Start      time.Time `form:"start" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	Finish     time.Time `form:"finish" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	Env        string    `form:"env"`
	Agency     string    `form:"agency"`
	IAL        int       `form:"ial"`
	FunnelMode string    `form:"funnel_mode"`
	Scale      string    `form:"scale"`
	TimeBucket string    `form:"time_bucket"`
	ByAgency   bool      `form:"by_agency"`
	Cumulative bool      `form:"cumulative"`
	Format     string    `form:"format"`
}

// Response is one rendered report.
type Response struct {
	Report      string              `json:"report"`
	Start       string              `json:"start"`
	Finish      string              `json:"finish"`
	Partial     bool                `json:"partial"`
	MissingDays []string            `json:"missing_days"`
	Table       table.Data          `json:"table"`
	Summary     *table.Data         `json:"summary,omitempty"`
	Series      []aggregation.Point `json:"series,omitempty"`
}

// AgenciesResponse lists the agencies with data in a range.
type AgenciesResponse struct {
	Start    string   `json:"start"`
	Finish   string   `json:"finish"`
	Agencies []string `json:"agencies"`
}
