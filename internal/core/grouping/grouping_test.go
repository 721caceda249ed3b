package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type row struct {
	agency string
	issuer string
	ial    int
	date   time.Time
	count  int64
}

func d(day int) time.Time {
	return time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC)
}

var rows = []row{
	{agency: "agency2", issuer: "issuer3", ial: 1, date: d(1), count: 555},
	{agency: "agency1", issuer: "issuer1", ial: 2, date: d(1), count: 1},
	{agency: "agency1", issuer: "issuer1", ial: 1, date: d(2), count: 111},
	{agency: "agency1", issuer: "issuer2", ial: 1, date: d(1), count: 1000},
	{agency: "agency1", issuer: "issuer1", ial: 1, date: d(1), count: 100},
}

var (
	byAgency = ByString(func(r row) string { return r.agency })
	byIssuer = ByString(func(r row) string { return r.issuer })
	byIAL    = ByInt(func(r row) int { return r.ial })
)

func TestGroup_NestedOrder(t *testing.T) {
	leaves := Flatten(Group(rows, byAgency, byIssuer, byIAL))

	var keys [][]string
	for _, leaf := range leaves {
		keys = append(keys, leaf.Keys)
	}
	require.Equal(t, [][]string{
		{"agency1", "issuer1", "1"},
		{"agency1", "issuer1", "2"},
		{"agency1", "issuer2", "1"},
		{"agency2", "issuer3", "1"},
	}, keys)

	// innermost items keep input order
	require.Equal(t, []row{rows[2], rows[4]}, leaves[0].Value)
}

func TestGroup_NumericKeyOrder(t *testing.T) {
	items := []row{{ial: 10}, {ial: 2}, {ial: 1}}
	nodes := Group(items, byIAL)
	require.Equal(t, "1", nodes[0].Key)
	require.Equal(t, "2", nodes[1].Key)
	require.Equal(t, "10", nodes[2].Key)
}

func TestGroup_CaseSensitiveLexical(t *testing.T) {
	items := []row{{agency: "b"}, {agency: "B"}, {agency: "a"}}
	nodes := Group(items, byAgency)
	require.Equal(t, []string{"B", "a", "b"}, []string{nodes[0].Key, nodes[1].Key, nodes[2].Key})
}

func TestGroup_Empty(t *testing.T) {
	require.Empty(t, Group[row](nil, byAgency))
	require.Empty(t, Flatten(Group[row](nil, byAgency)))
}

func TestRollup(t *testing.T) {
	sum := func(items []row) int64 { return Sum(items, func(r row) int64 { return r.count }) }

	leaves := Rollup(rows, sum, byAgency, byIAL)
	require.Len(t, leaves, 3)
	require.Equal(t, []string{"agency1", "1"}, leaves[0].Keys)
	require.Equal(t, int64(1211), leaves[0].Value)
	require.Equal(t, int64(1), leaves[1].Value)
	require.Equal(t, int64(555), leaves[2].Value)

	all := Rollup(rows, sum)
	require.Len(t, all, 1)
	require.Equal(t, int64(1767), all[0].Value)
}

func TestDateColumns(t *testing.T) {
	cols := DateColumns(rows, func(r row) time.Time { return r.date })
	require.Equal(t, []time.Time{d(1), d(2)}, cols)
	require.Empty(t, DateColumns[row](nil, func(r row) time.Time { return r.date }))
}

func TestSpread(t *testing.T) {
	cols := []time.Time{d(1), d(2), d(3)}
	cells, total := Spread(cols, rows[2:], func(r row) time.Time { return r.date }, func(r row) int64 { return r.count })
	require.Equal(t, []int64{1100, 111, 0}, cells)
	require.Equal(t, int64(1211), total)
}
