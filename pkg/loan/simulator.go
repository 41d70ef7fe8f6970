package loan

import (
	"math"

	"github.com/c9s/loanmc/pkg/datatype/floats"
)

const (
	// DefaultShockSensitivity is how much the default probability moves per unit of rate shock
	DefaultShockSensitivity = 0.5

	// PrepayShockSensitivity is how much the prepayment probability drops per unit of rate shock
	PrepayShockSensitivity = 0.3
)

// RandomSource yields uniform samples in [0, 1).
// *rand.Rand from golang.org/x/exp/rand and math/rand both satisfy it.
type RandomSource interface {
	Float64() float64
}

// EffectiveRate returns the shocked contract rate, floored at zero.
func EffectiveRate(annualRate, rateShock float64) float64 {
	return math.Max(0, annualRate+rateShock)
}

// EventProbabilities returns the per-period default and prepayment probabilities under
// the given shock. Higher rates raise defaults and lower prepayments.
//
// Neither value is clamped to [0, 1] except the zero floor of the prepayment
// probability: a default probability above one absorbs every draw, a negative one
// disables defaults.
func EventProbabilities(p Parameters, rateShock float64) (pDefault, pPrepay float64) {
	pDefault = p.DefaultProbability + DefaultShockSensitivity*rateShock
	pPrepay = math.Max(0, p.PrepayProbability-PrepayShockSensitivity*rateShock)
	return pDefault, pPrepay
}

// ScheduledPayment returns the level annual payment that amortizes principal over term
// periods at rate r.
func ScheduledPayment(principal, r float64, term int) float64 {
	if r == 0 {
		return principal / float64(term)
	}

	growth := math.Pow(1+r, float64(term))
	return principal * r * growth / (growth - 1)
}

// loanState is the mutable state of a single simulated loan
type loanState struct {
	outstanding float64
	active      bool
}

func (s *loanState) close() {
	s.active = false
	s.outstanding = 0.0
}

// SimulateCashflows simulates the annual cash flows of one loan under rateShock.
// The returned series always has exactly p.Term entries; entry i is the cash received
// in period i+1. Once the loan defaults, prepays or is fully amortized every remaining
// entry is 0.0 and no more samples are drawn from rnd.
//
// The caller must pass validated parameters.
func SimulateCashflows(p Parameters, rateShock float64, rnd RandomSource) floats.Slice {
	r := EffectiveRate(p.AnnualRate, rateShock)
	pDefault, pPrepay := EventProbabilities(p, rateShock)
	payment := ScheduledPayment(p.Principal, r, p.Term)

	cashflows := floats.Zeros(p.Term)
	state := loanState{outstanding: p.Principal, active: true}

	for period := 0; period < p.Term; period++ {
		if !state.active || state.outstanding <= 0 {
			continue
		}

		interest := state.outstanding * r
		principalComponent := payment - interest

		// final period truing, the reduced payment carries over to later periods
		if principalComponent > state.outstanding {
			principalComponent = state.outstanding
			payment = interest + principalComponent
		}

		cashflow := payment

		u := rnd.Float64()
		switch {
		case u < pDefault:
			state.close()

		case u < pDefault+pPrepay:
			cashflow += state.outstanding - principalComponent
			state.close()

		default:
			state.outstanding -= principalComponent
		}

		cashflows[period] = cashflow
	}

	return cashflows
}
