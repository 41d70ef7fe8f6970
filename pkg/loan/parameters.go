package loan

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var ErrInvalidParameters = errors.New("invalid loan parameters")

// Parameters describes one loan product. All loans of a portfolio share the same
// Parameters value and it is never mutated once a simulation starts.
type Parameters struct {
	// Principal is the amount lent, in USD
	Principal float64 `json:"principal" yaml:"principal"`

	// AnnualRate is the contract rate as a decimal fraction, e.g. 0.10 for 10%
	AnnualRate float64 `json:"annualRate" yaml:"annualRate"`

	// Term is the number of annual payment periods
	Term int `json:"term" yaml:"term"`

	// DefaultProbability is the base probability of default in each period
	DefaultProbability float64 `json:"defaultProbability" yaml:"defaultProbability"`

	// PrepayProbability is the base probability of a full prepayment in each period
	PrepayProbability float64 `json:"prepayProbability" yaml:"prepayProbability"`
}

// Validate checks the loan parameters and returns every violation found.
// Probabilities are deliberately not bounded to [0, 1], see EventProbabilities.
func (p Parameters) Validate() (err error) {
	if !isFinite(p.Principal) || p.Principal <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidParameters, "principal must be a finite positive number, got %v", p.Principal))
	}

	if p.Term <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidParameters, "term must be positive, got %d", p.Term))
	}

	if !isFinite(p.AnnualRate) || p.AnnualRate < -1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidParameters, "annual rate must be finite and >= -1, got %v", p.AnnualRate))
	}

	if !isFinite(p.DefaultProbability) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidParameters, "default probability must be finite, got %v", p.DefaultProbability))
	}

	if !isFinite(p.PrepayProbability) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidParameters, "prepay probability must be finite, got %v", p.PrepayProbability))
	}

	return err
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
