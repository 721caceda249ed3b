package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV writes the header, body and footer of data as CSV rows. Ragged tables are
// rejected with ErrShape before anything is written.
func WriteCSV(w io.Writer, data Data) error {
	if err := data.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	for _, row := range data.Rows() {
		if err := cw.Write(row.Flatten()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename is the download name of an exported report.
func Filename(report string, start, finish time.Time) string {
	return fmt.Sprintf("%s-%s-to-%s.csv", report, start.UTC().Format(time.DateOnly), finish.UTC().Format(time.DateOnly))
}
