package risk

import (
	"math"

	"github.com/c9s/loanmc/pkg/datatype/floats"
)

// tailIndex returns the number of simulated outcomes in the (1 - confidence) lower tail
func tailIndex(n int, confidence float64) int {
	idx := int((1.0 - confidence) * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// ValueAtRisk returns the shortfall from the mean value that the simulated values
// do not exceed with the given confidence, e.g. 0.95.
func ValueAtRisk(values []float64, confidence float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := floats.Sorted(values)
	return floats.Average(values) - sorted[tailIndex(len(sorted), confidence)]
}

// ExpectedShortfall returns the average shortfall from the mean value of the
// outcomes below the value-at-risk level.
func ExpectedShortfall(values []float64, confidence float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := floats.Sorted(values)
	idx := tailIndex(len(sorted), confidence)
	if idx == 0 {
		return floats.Average(values) - sorted[0]
	}

	return floats.Average(values) - floats.Average(sorted[:idx])
}
