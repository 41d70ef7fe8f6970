package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/loanmc/pkg/datatype/floats"
)

func TestPresentValue(t *testing.T) {
	tests := []struct {
		name      string
		cashflows []float64
		rate      float64
		want      float64
	}{
		{name: "empty", cashflows: nil, rate: 0.05, want: 0},
		{name: "zero rate sums", cashflows: []float64{100, 200, 300}, rate: 0, want: 600},
		{name: "single period", cashflows: []float64{110}, rate: 0.10, want: 100},
		{name: "two periods", cashflows: []float64{0, 121}, rate: 0.10, want: 100},
		{name: "annuity", cashflows: []float64{1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488, 1627.4539488}, rate: 0.10, want: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PresentValue(tt.cashflows, tt.rate), 1e-4)
		})
	}
}

func TestPresentValue_AllZero(t *testing.T) {
	zeros := floats.Zeros(12)
	for _, rate := range []float64{0, 0.01, 0.08, 1.5, 10} {
		assert.Equal(t, 0.0, PresentValue(zeros, rate))
	}
}

func TestPresentValue_Linear(t *testing.T) {
	x := floats.Slice{100, -20, 35.5, 0, 1200}
	y := floats.Slice{3, 14, 15, 92, 65}

	for _, rate := range []float64{0, 0.03, 0.08, 0.25} {
		for _, ab := range [][2]float64{{1, 1}, {2, -3}, {0.5, 7.25}, {0, 0}} {
			a, b := ab[0], ab[1]
			combined := x.MulScalar(a).Add(y.MulScalar(b))
			want := a*PresentValue(x, rate) + b*PresentValue(y, rate)
			assert.InDelta(t, want, PresentValue(combined, rate), 1e-9)
		}
	}
}

func TestFactors(t *testing.T) {
	factors := Factors(3, 0.10)
	require.Len(t, factors, 3)
	assert.InDelta(t, 1/1.1, factors[0], 1e-12)
	assert.InDelta(t, 1/1.21, factors[1], 1e-12)
	assert.InDelta(t, 1/1.331, factors[2], 1e-12)
	assert.Nil(t, Factors(0, 0.1))
}
