package risk

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sajari/regression"
)

// RateSensitivity is the least squares fit of the portfolio value on the rate shock
type RateSensitivity struct {
	Intercept float64 `json:"intercept"`

	// Slope is the value change per unit of rate shock, negative for a portfolio that loses value when rates rise
	Slope float64 `json:"slope"`

	R2 float64 `json:"r2"`
}

// PerBasisPoints returns the fitted value change for a shock of bp basis points
func (s *RateSensitivity) PerBasisPoints(bp float64) float64 {
	return s.Slope * bp / 10000.0
}

// FitRateSensitivity regresses values[i] on shocks[i]. It fails when the series
// differ in length, hold fewer than three points, either series is constant or
// the fit is not finite.
func FitRateSensitivity(values, shocks []float64) (*RateSensitivity, error) {
	if len(values) != len(shocks) {
		return nil, errors.Errorf("length mismatch: %d values, %d shocks", len(values), len(shocks))
	}

	if len(values) < 3 {
		return nil, errors.Errorf("not enough trials for a rate sensitivity fit: %d", len(values))
	}

	if isConstant(shocks) {
		return nil, errors.New("rate shocks have no variance")
	}

	if isConstant(values) {
		return nil, errors.New("portfolio values have no variance")
	}

	r := new(regression.Regression)
	r.SetObserved("portfolio value")
	r.SetVar(0, "rate shock")

	var points regression.DataPoints
	for i := range values {
		points = append(points, regression.DataPoint(values[i], []float64{shocks[i]}))
	}
	r.Train(points...)

	if err := r.Run(); err != nil {
		return nil, errors.Wrap(err, "rate sensitivity regression")
	}

	fit := &RateSensitivity{
		Intercept: r.Coeff(0),
		Slope:     r.Coeff(1),
		R2:        r.R2,
	}
	if !isFinite(fit.Intercept) || !isFinite(fit.Slope) || !isFinite(fit.R2) {
		return nil, errors.Errorf("rate sensitivity fit is not finite: %+v", *fit)
	}

	return fit, nil
}

// isConstant reports whether the spread of series is within rounding noise of its magnitude
func isConstant(series []float64) bool {
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	scale := math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
	return hi-lo <= 1e-12*scale
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
