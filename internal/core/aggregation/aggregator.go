package aggregation

import (
	"github.com/shopspring/decimal"
)

// Reducer folds the samples of one series bucket.
type Reducer interface {
	Fold(current, incoming decimal.Decimal) decimal.Decimal
	// Finish turns the folded value of n samples into the bucket value.
	Finish(folded decimal.Decimal, n int64) decimal.Decimal
}

// Operators maps an operator name to its reducer.
var Operators = map[string]Reducer{
	OpSum:  sum{},
	OpMean: mean{},
}

type sum struct{}

func (sum) Fold(cur, inc decimal.Decimal) decimal.Decimal          { return cur.Add(inc) }
func (sum) Finish(folded decimal.Decimal, _ int64) decimal.Decimal { return folded }

// mean folds like sum and divides by the sample count at the end.
type mean struct{}

func (mean) Fold(cur, inc decimal.Decimal) decimal.Decimal { return cur.Add(inc) }
func (mean) Finish(folded decimal.Decimal, n int64) decimal.Decimal {
	return folded.Div(decimal.NewFromInt(n))
}

// Accumulator folds samples for one bucket with a single operator.
type Accumulator struct {
	Operator string
	Value    decimal.Decimal
	Samples  int64
}

// Add folds v into the accumulator. The operator must be registered.
func (a *Accumulator) Add(v decimal.Decimal) {
	a.Value = Operators[a.Operator].Fold(a.Value, v)
	a.Samples++
}

// Result returns the bucket value; an empty accumulator yields zero.
func (a Accumulator) Result() decimal.Decimal {
	if a.Samples == 0 {
		return decimal.Zero
	}
	return Operators[a.Operator].Finish(a.Value, a.Samples)
}
