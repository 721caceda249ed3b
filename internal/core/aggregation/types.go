package aggregation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Series operators.
const (
	OpSum  = "sum"
	OpMean = "mean"
)

// Sample is one observation placed into a time series.
type Sample struct {
	Time  time.Time
	Group string // series the sample belongs to; empty for a single series
	Value decimal.Decimal
}

// Point is one reduced bucket of a time series.
type Point struct {
	Start   time.Time       `json:"start"`
	Group   string          `json:"group,omitempty"`
	Value   decimal.Decimal `json:"value"`
	Samples int64           `json:"samples"`
}
