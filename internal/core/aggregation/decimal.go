package aggregation

import "github.com/shopspring/decimal"

// Ratio returns n/d, or zero when d is zero. Division by zero is not an error in reports:
// an empty denominator means there is nothing to compare against.
func Ratio(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.Div(d)
}

// FromCount converts a report count to a decimal.
func FromCount(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
