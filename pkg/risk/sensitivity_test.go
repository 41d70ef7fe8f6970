package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRateSensitivity(t *testing.T) {
	shocks := []float64{-0.02, -0.01, 0, 0.01, 0.02, 0.03}
	values := make([]float64, len(shocks))
	for i, s := range shocks {
		values[i] = 500000 - 2000000*s
	}

	fit, err := FitRateSensitivity(values, shocks)
	require.NoError(t, err)
	assert.InDelta(t, 500000, fit.Intercept, 1e-4)
	assert.InDelta(t, -2000000, fit.Slope, 1e-3)
	assert.InDelta(t, 1.0, fit.R2, 1e-6)
	assert.InDelta(t, -200, fit.PerBasisPoints(1), 1e-6)
}

func TestFitRateSensitivity_Errors(t *testing.T) {
	_, err := FitRateSensitivity([]float64{1, 2}, []float64{0.1})
	assert.Error(t, err)

	_, err = FitRateSensitivity([]float64{1, 2}, []float64{0.1, 0.2})
	assert.Error(t, err)

	_, err = FitRateSensitivity([]float64{1, 2, 3}, []float64{0, 0, 0})
	assert.Error(t, err)
}

func TestFitRateSensitivity_ConstantValues(t *testing.T) {
	values := []float64{2000, 2000, 2000, 2000}
	shocks := []float64{-0.01, 0.003, 0.02, -0.015}

	fit, err := FitRateSensitivity(values, shocks)
	assert.Error(t, err)
	assert.Nil(t, fit)
}

func TestFitRateSensitivity_NonFiniteValues(t *testing.T) {
	values := []float64{1, math.Inf(1), 3}
	shocks := []float64{0.01, 0.02, 0.03}

	_, err := FitRateSensitivity(values, shocks)
	assert.Error(t, err)
}
