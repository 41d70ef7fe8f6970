package report

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/c9s/loanmc/pkg/datatype/floats"
)

// Summary describes the distribution of a simulated series
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`

	// StdDev is the population standard deviation
	StdDev float64 `json:"stdDev"`

	Min float64 `json:"min"`
	Max float64 `json:"max"`
	P5  float64 `json:"p5"`
	P95 float64 `json:"p95"`
}

// Summarize computes the summary statistics of values. Percentiles use linear
// interpolation between closest ranks.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Median: nan, StdDev: nan, Min: nan, Max: nan, P5: nan, P95: nan}
	}

	mean := stat.Mean(values, nil)
	stdDev := 0.0
	if n > 1 {
		_, variance := stat.MeanVariance(values, nil)
		stdDev = math.Sqrt(variance * float64(n-1) / float64(n))
	}

	series := floats.Slice(values)
	return Summary{
		Count:  n,
		Mean:   mean,
		Median: floats.Percentile(values, 50),
		StdDev: stdDev,
		Min:    series.Min(),
		Max:    series.Max(),
		P5:     floats.Percentile(values, 5),
		P95:    floats.Percentile(values, 95),
	}
}
