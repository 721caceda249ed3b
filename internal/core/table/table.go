package table

import (
	"errors"
	"fmt"
)

// ErrShape reports a row whose physical width differs from the header's.
var ErrShape = errors.New("table shape mismatch")

// Row is an ordered list of cells.
type Row []Cell

// Width is the sum of the spans of the row's cells.
func (r Row) Width() int {
	width := 0
	for _, c := range r {
		width += c.Span()
	}
	return width
}

// Flatten expands every cell of the row into flat export values.
func (r Row) Flatten() []string {
	out := make([]string, 0, r.Width())
	for _, c := range r {
		out = append(out, c.Values()...)
	}
	return out
}

// Data is a rendered report grid. Footer is optional.
type Data struct {
	Header Row   `json:"header"`
	Body   []Row `json:"body"`
	Footer Row   `json:"footer,omitempty"`
}

// Rows returns the header, body and footer in export order.
func (d Data) Rows() []Row {
	rows := make([]Row, 0, len(d.Body)+2)
	rows = append(rows, d.Header)
	rows = append(rows, d.Body...)
	if len(d.Footer) > 0 {
		rows = append(rows, d.Footer)
	}
	return rows
}

// Validate checks that every body and footer row spans as many columns as the header.
func (d Data) Validate() error {
	want := d.Header.Width()
	for i, row := range d.Body {
		if got := row.Width(); got != want {
			return fmt.Errorf("%w: body row %d spans %d columns, header spans %d", ErrShape, i, got, want)
		}
	}
	if len(d.Footer) > 0 {
		if got := d.Footer.Width(); got != want {
			return fmt.Errorf("%w: footer spans %d columns, header spans %d", ErrShape, got, want)
		}
	}
	return nil
}
