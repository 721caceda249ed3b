package grouping

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// DateColumns returns the distinct dates of items in ascending order. Columns are derived
// from the whole (already filtered) set so every group aligns to the same columns.
func DateColumns[T any](items []T, date func(T) time.Time) []time.Time {
	dates := lo.UniqBy(lo.Map(items, func(item T, _ int) time.Time {
		return date(item).UTC()
	}), func(t time.Time) int64 {
		return t.UnixNano()
	})
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

// Spread lays per-date sums of items onto columns, filling 0 where a column has no item,
// and returns the row total computed from those same cells.
func Spread[T any](columns []time.Time, items []T, date func(T) time.Time, value func(T) int64) ([]int64, int64) {
	byDate := make(map[int64]int64, len(items))
	for _, item := range items {
		byDate[date(item).UTC().UnixNano()] += value(item)
	}

	cells := make([]int64, len(columns))
	var total int64
	for i, col := range columns {
		cells[i] = byDate[col.UnixNano()]
		total += cells[i]
	}
	return cells, total
}

// Sum adds value over items.
func Sum[T any](items []T, value func(T) int64) int64 {
	return lo.SumBy(items, value)
}
