package floats

import (
	"math"
	"sort"
)

func Average(arr []float64) float64 {
	if len(arr) == 0 {
		return 0.0
	}

	s := 0.0
	for _, a := range arr {
		s += a
	}
	return s / float64(len(arr))
}

// Sorted returns a sorted copy of arr, the input is left untouched.
func Sorted(arr []float64) []float64 {
	out := make([]float64, len(arr))
	copy(out, arr)
	sort.Float64s(out)
	return out
}

// Percentile returns the p-th percentile (0-100) of arr using linear interpolation
// between the closest ranks.
func Percentile(arr []float64, p float64) float64 {
	if len(arr) == 0 {
		return math.NaN()
	}

	sorted := Sorted(arr)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100.0 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}

	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
