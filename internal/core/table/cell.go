// Package table holds the grid every report renders to, and its CSV serialization.
package table

import (
	"encoding/json"
	"strconv"
)

// Cell is one header, body or footer cell: Text, Number or Rich.
type Cell interface {
	// Span is the number of physical columns the cell occupies.
	Span() int
	// Values expands the cell into its flat export values.
	Values() []string
	isCell()
}

// Text is a plain string cell.
type Text string

// Number is a numeric cell. It keeps its raw value; formatting happens at render time.
type Number float64

// Rich is an annotated cell. Display is the human-readable text, CSV an optional export
// override (for example issuer and friendly name for a combined App column).
type Rich struct {
	Display    string   `json:"display"`
	Title      string   `json:"title,omitempty"`
	Background string   `json:"background,omitempty"`
	CSV        []string `json:"csv,omitempty"`
	ColSpan    int      `json:"colspan,omitempty"`
	Numeric    bool     `json:"numeric,omitempty"`
}

func (Text) isCell()   {}
func (Number) isCell() {}
func (Rich) isCell()   {}

func (Text) Span() int   { return 1 }
func (Number) Span() int { return 1 }

// Span treats a missing or non-positive ColSpan as 1.
func (r Rich) Span() int {
	if r.ColSpan < 1 {
		return 1
	}
	return r.ColSpan
}

func (t Text) Values() []string { return []string{string(t)} }

func (n Number) Values() []string {
	return []string{strconv.FormatFloat(float64(n), 'f', -1, 64)}
}

// Values returns the CSV override when set, otherwise Display. Either is padded with
// empty strings or truncated to the cell's span, so a row always flattens to its width.
func (r Rich) Values() []string {
	out := make([]string, r.Span())
	if r.CSV != nil {
		copy(out, r.CSV)
		return out
	}
	out[0] = r.Display
	return out
}

// Int is a Number built from a count.
func Int(n int64) Number {
	return Number(float64(n))
}

// Texts builds a row of Text cells.
func Texts(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Text(v)
	}
	return row
}

// Flatten expands a cell into its flat export values.
func Flatten(c Cell) []string {
	return c.Values()
}

// Display renders a cell for humans. Numbers go through format.
func Display(c Cell, format func(float64) string) string {
	switch v := c.(type) {
	case Text:
		return string(v)
	case Number:
		if format == nil {
			return strconv.FormatFloat(float64(v), 'f', -1, 64)
		}
		return format(float64(v))
	case Rich:
		return v.Display
	default:
		return ""
	}
}

type cellJSON struct {
	Kind   string   `json:"kind"`
	Text   *string  `json:"text,omitempty"`
	Number *float64 `json:"number,omitempty"`
}

func (t Text) MarshalJSON() ([]byte, error) {
	s := string(t)
	return json.Marshal(cellJSON{Kind: "text", Text: &s})
}

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	return json.Marshal(cellJSON{Kind: "number", Number: &f})
}

func (r Rich) MarshalJSON() ([]byte, error) {
	type plain Rich
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{Kind: "rich", plain: plain(r)})
}
