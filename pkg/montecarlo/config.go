package montecarlo

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/c9s/loanmc/pkg/loan"
)

var (
	// ErrInvalidArgument is returned when a run is configured with values that cannot be simulated
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNumericDegeneracy marks an internal invariant violation in the discounting step
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)

type DistributionType string

const (
	DistributionNormal   DistributionType = "normal"
	DistributionStudentT DistributionType = "student-t"
)

func ParseDistributionType(s string) (DistributionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "normal", "gaussian":
		return DistributionNormal, nil
	case "student-t", "studentt", "t":
		return DistributionStudentT, nil
	default:
		return "", errors.Wrapf(ErrInvalidArgument, "unknown shock distribution %q", s)
	}
}

// Config is the immutable description of a portfolio valuation run.
type Config struct {
	NumLoans  int `json:"numLoans" yaml:"numLoans"`
	NumTrials int `json:"numTrials" yaml:"numTrials"`

	Loan loan.Parameters `json:"loan" yaml:"loan"`

	BaseDiscountRate float64 `json:"baseDiscountRate" yaml:"baseDiscountRate"`

	// RateShockStdDev is the standard deviation of the per-trial rate shock. For a
	// student-t with DegreesOfFreedom <= 2 the variance is infinite and it is the scale.
	RateShockStdDev float64 `json:"rateShockStdDev" yaml:"rateShockStdDev"`

	// Distribution of the rate shock, normal when empty
	Distribution DistributionType `json:"distribution,omitempty" yaml:"distribution,omitempty"`

	// DegreesOfFreedom is only used by the student-t distribution
	DegreesOfFreedom float64 `json:"degreesOfFreedom,omitempty" yaml:"degreesOfFreedom,omitempty"`

	// Seed makes a run reproducible, the same seed yields the same result for any number of workers
	Seed uint64 `json:"seed" yaml:"seed"`

	// Workers is the number of concurrent trial workers, 0 means GOMAXPROCS
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Validate reports every configuration problem at once. All errors match ErrInvalidArgument.
func (c Config) Validate() (err error) {
	if c.NumLoans <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "numLoans must be positive, got %d", c.NumLoans))
	}

	if c.NumTrials <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "numTrials must be positive, got %d", c.NumTrials))
	}

	for _, loanErr := range multierr.Errors(c.Loan.Validate()) {
		err = multierr.Append(err, fmt.Errorf("%w: %w", ErrInvalidArgument, loanErr))
	}

	if math.IsNaN(c.BaseDiscountRate) || math.IsInf(c.BaseDiscountRate, 0) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "baseDiscountRate must be finite, got %v", c.BaseDiscountRate))
	}

	if math.IsNaN(c.RateShockStdDev) || math.IsInf(c.RateShockStdDev, 0) || c.RateShockStdDev < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "rateShockStdDev must be a finite non-negative number, got %v", c.RateShockStdDev))
	}

	switch c.Distribution {
	case "", DistributionNormal:
	case DistributionStudentT:
		if !(c.DegreesOfFreedom > 0) || math.IsInf(c.DegreesOfFreedom, 0) {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "degreesOfFreedom must be finite and positive for %s, got %v", c.Distribution, c.DegreesOfFreedom))
		}
	default:
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "unknown shock distribution %q", c.Distribution))
	}

	if c.Workers < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidArgument, "workers must not be negative, got %d", c.Workers))
	}

	return err
}

func (c Config) distribution() DistributionType {
	if c.Distribution == "" {
		return DistributionNormal
	}
	return c.Distribution
}
