package aggregation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestRollup(t *testing.T) {
	samples := []Sample{
		{Time: day(4).Add(time.Hour), Group: "b", Value: decimal.NewFromInt(2)},
		{Time: day(5), Group: "b", Value: decimal.NewFromInt(4)},
		{Time: day(4), Group: "a", Value: decimal.NewFromInt(1)},
		{Time: day(11), Group: "a", Value: decimal.NewFromInt(10)},
	}

	t.Run("weekly sum", func(t *testing.T) {
		points := Rollup(samples, Week, OpSum)
		require.Len(t, points, 3)
		require.Equal(t, "a", points[0].Group)
		require.Equal(t, day(3), points[0].Start)
		require.Equal(t, day(10), points[1].Start)
		require.Equal(t, "b", points[2].Group)
		require.True(t, decimal.NewFromInt(6).Equal(points[2].Value))
		require.Equal(t, int64(2), points[2].Samples)
	})

	t.Run("weekly mean", func(t *testing.T) {
		points := Rollup(samples, Week, OpMean)
		require.True(t, decimal.NewFromInt(3).Equal(points[2].Value))
	})

	t.Run("empty input", func(t *testing.T) {
		require.Empty(t, Rollup(nil, Day, OpSum))
	})
}

func TestFillRange(t *testing.T) {
	points := []Point{{Start: day(2), Group: "a", Value: decimal.NewFromInt(5), Samples: 1}}

	filled := FillRange(points, Day, day(1), day(4))
	require.Len(t, filled, 3)
	require.Equal(t, day(1), filled[0].Start)
	require.True(t, filled[0].Value.IsZero())
	require.True(t, decimal.NewFromInt(5).Equal(filled[1].Value))
	require.Equal(t, day(3), filled[2].Start)
}
