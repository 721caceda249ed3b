package funnel

// StepCount is the derived count and conversion ratios of one step for one row.
type StepCount struct {
	Step  Step  `json:"step"`
	Count int64 `json:"count"`
	// PercentOfFirst compares to the first step of the funnel.
	PercentOfFirst float64 `json:"percent_of_first"`
	// PercentOfPrevious compares to the step immediately before.
	PercentOfPrevious float64 `json:"percent_of_previous"`
}

// CountFunc returns a row's count for step, 0 when absent.
type CountFunc func(step Step) int64

// ToStepCounts derives one StepCount per step. The first step compares to itself, and
// any ratio with a zero denominator is 0. steps must not be empty.
func ToStepCounts(count CountFunc, steps []StepTitle) []StepCount {
	if len(steps) == 0 {
		panic("funnel: ToStepCounts called with no steps")
	}

	first := count(steps[0].Key)

	out := make([]StepCount, len(steps))
	for idx, st := range steps {
		c := count(st.Key)
		prev := first
		if idx > 0 {
			prev = count(steps[idx-1].Key)
		}

		out[idx] = StepCount{
			Step:              st.Key,
			Count:             c,
			PercentOfFirst:    ratio(c, first),
			PercentOfPrevious: ratio(c, prev),
		}
	}
	return out
}

func ratio(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
