// Package dropoffs builds the daily proofing dropoffs report: how many users reached
// each identity-proofing funnel step, per app and day.
package dropoffs

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/idp-analytics/identity-reports/internal/loader"
)

// Row is one app's funnel counts over [Start, Finish).
type Row struct {
	report.Dimensions
	Start  time.Time             `json:"start"`
	Finish time.Time             `json:"finish"`
	Counts map[funnel.Step]int64 `json:"counts"`
}

// Count returns the row's count for step, 0 when absent.
func (r Row) Count(step funnel.Step) int64 {
	return r.Counts[step]
}

// dimension columns; every other column is a step count
const (
	colIssuer       = "issuer"
	colFriendlyName = "friendly_name"
	colIAA          = "iaa"
	colAgency       = "agency"
	colStart        = "start"
	colFinish       = "finish"
)

// ParseCSV decodes one daily fragment. Count columns are typed by content: a numeric
// cell is a count, anything else (including empty) counts as 0.
func ParseCSV(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dropoffs header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dropoffs line %d: %w", line, err)
		}

		row, err := parseRecord(header, record)
		if err != nil {
			return nil, fmt.Errorf("dropoffs line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(header, record []string) (Row, error) {
	row := Row{Counts: make(map[funnel.Step]int64)}
	var dims report.Dimensions

	for i, name := range header {
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}

		switch name {
		case colIssuer:
			dims.Issuer = value
		case colFriendlyName:
			dims.FriendlyName = value
		case colIAA:
			dims.IAA = value
		case colAgency:
			dims.Agency = value
		case colStart, colFinish:
			if value == "" {
				continue
			}
			t, err := report.ParseTimestamp(value)
			if err != nil {
				return Row{}, fmt.Errorf("invalid %s %q: %w", name, value, err)
			}
			if name == colStart {
				row.Start = t
			} else {
				row.Finish = t
			}
		default:
			row.Counts[funnel.Step(name)] = autoCount(value)
		}
	}

	row.Dimensions = report.Normalize(dims)
	return row, nil
}

func autoCount(value string) int64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Round(f))
}

// Load fetches and parses every day of the filter's range without aggregating. Days that
// fail to fetch or parse are returned in missing.
func Load(ctx context.Context, l *loader.Loader, f report.Filter) (rows []Row, missing []time.Time, err error) {
	result, err := l.LoadDays(ctx, report.DailyDropoffs, report.ExtCSV, f.Start, f.Finish, f.Env)
	if err != nil {
		return nil, nil, err
	}

	missing = result.Missing
	for _, fragment := range result.Fragments {
		parsed, err := ParseCSV(fragment.Data)
		if err != nil {
			slog.Warn("[Dropoffs] Dropping unreadable fragment", "date", report.FormatDay(fragment.Date), "error", err)
			missing = append(missing, fragment.Date)
			continue
		}
		rows = append(rows, parsed...)
	}
	return rows, missing, nil
}

// Dimensions projects rows to their dimensions, for agency listings.
func Dimensions(rows []Row) []report.Dimensions {
	out := make([]report.Dimensions, len(rows))
	for i, r := range rows {
		out[i] = r.Dimensions
	}
	return out
}
