// Package discount converts cash-flow series into present values.
package discount

import "math"

// Factors returns the discount factors 1/(1+rate)^t for periods t = 1..n.
func Factors(n int, rate float64) []float64 {
	if n <= 0 {
		return nil
	}

	factors := make([]float64, n)
	base := 1 + rate
	for t := 1; t <= n; t++ {
		factors[t-1] = 1 / math.Pow(base, float64(t))
	}
	return factors
}

// PresentValue discounts cashflows at the periodic rate. cashflows[0] is received at
// the end of period 1. rate must be greater than -1, callers are expected to floor
// shocked rates before discounting.
func PresentValue(cashflows []float64, rate float64) float64 {
	pv := 0.0
	for i, df := range Factors(len(cashflows), rate) {
		pv += cashflows[i] * df
	}
	return pv
}
