package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/idp-analytics/identity-reports/internal/core/format"
	"github.com/idp-analytics/identity-reports/internal/core/table"
	"github.com/idp-analytics/identity-reports/internal/dashboard"
)

const (
	numbersCommas = "commas"
	numbersSI     = "si"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = cellStyle.Bold(true)
)

// numberFormatter picks how Number cells are shown. Deletion rates are always percentages.
func numberFormatter(reportName, numbers string) (func(float64) string, error) {
	if reportName == dashboard.AccountDeletions {
		return format.DecimalPercent, nil
	}
	switch numbers {
	case "", numbersCommas:
		return format.WithCommas, nil
	case numbersSI:
		return format.SI, nil
	default:
		return nil, fmt.Errorf("invalid --numbers %q: must be %q or %q", numbers, numbersCommas, numbersSI)
	}
}

// renderTable lays data out as a bordered terminal table. Spanning cells occupy their
// first column and leave the rest blank; cell backgrounds are kept.
func renderTable(data table.Data, formatter func(float64) string) string {
	header, _ := physicalRow(data.Header, formatter)

	var (
		rows        [][]string
		backgrounds [][]string
	)
	for _, r := range data.Body {
		values, bg := physicalRow(r, formatter)
		rows = append(rows, values)
		backgrounds = append(backgrounds, bg)
	}
	footerRow := -1
	if len(data.Footer) > 0 {
		values, bg := physicalRow(data.Footer, formatter)
		footerRow = len(rows)
		rows = append(rows, values)
		backgrounds = append(backgrounds, bg)
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if row == footerRow {
				style = footerStyle
			}
			if row >= 0 && row < len(backgrounds) && col < len(backgrounds[row]) && backgrounds[row][col] != "" {
				style = style.Background(lipgloss.Color(backgrounds[row][col])).Foreground(lipgloss.Color("#000000"))
			}
			return style
		}).
		Headers(header...).
		Rows(rows...)

	return t.String()
}

// physicalRow expands a row to one display value and background per physical column.
func physicalRow(r table.Row, formatter func(float64) string) (values, backgrounds []string) {
	for _, c := range r {
		bg := ""
		if rich, ok := c.(table.Rich); ok {
			bg = rich.Background
		}
		values = append(values, table.Display(c, formatter))
		backgrounds = append(backgrounds, bg)
		for i := 1; i < c.Span(); i++ {
			values = append(values, "")
			backgrounds = append(backgrounds, bg)
		}
	}
	return values, backgrounds
}
