package aggregation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type seriesKey struct {
	group string
	start time.Time
}

// Rollup bins samples into buckets per group and reduces each bucket with op.
// Points are ordered by group, then bucket start. Only buckets holding samples are emitted.
func Rollup(samples []Sample, bucket Bucket, op string) []Point {
	accs := make(map[seriesKey]*Accumulator)
	for _, s := range samples {
		key := seriesKey{group: s.Group, start: BucketFor(s.Time, bucket)}
		acc, ok := accs[key]
		if !ok {
			acc = &Accumulator{Operator: op}
			accs[key] = acc
		}
		acc.Add(s.Value)
	}

	points := make([]Point, 0, len(accs))
	for key, acc := range accs {
		points = append(points, Point{
			Start:   key.start,
			Group:   key.group,
			Value:   acc.Result(),
			Samples: acc.Samples,
		})
	}

	sortPoints(points)
	return points
}

// FillRange returns points with a zero-valued bucket for every bucket in [start, end)
// that a group has no point for. Every group seen in points is filled.
func FillRange(points []Point, bucket Bucket, start, end time.Time) []Point {
	groups := make(map[string]struct{})
	have := make(map[seriesKey]struct{}, len(points))
	for _, p := range points {
		groups[p.Group] = struct{}{}
		have[seriesKey{group: p.Group, start: p.Start}] = struct{}{}
	}

	out := append([]Point(nil), points...)
	for group := range groups {
		for current := BucketFor(start, bucket); current.Before(end); current = Next(current, bucket) {
			if _, ok := have[seriesKey{group: group, start: current}]; ok {
				continue
			}
			out = append(out, Point{Start: current, Group: group, Value: decimal.Zero})
		}
	}

	sortPoints(out)
	return out
}

func sortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Group != points[j].Group {
			return points[i].Group < points[j].Group
		}
		return points[i].Start.Before(points[j].Start)
	})
}
