package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/c9s/loanmc/pkg/envvar"
	"github.com/c9s/loanmc/pkg/loan"
	"github.com/c9s/loanmc/pkg/montecarlo"
)

// ErrMissingField is returned when a required config key is absent
var ErrMissingField = errors.New("missing required config field")

// requiredFields lists the keys every config file must set. There are no defaults
// for the valuation inputs.
var requiredFields = []string{
	"loan.principal",
	"loan.annualRate",
	"loan.term",
	"loan.defaultProbability",
	"loan.prepayProbability",
	"simulation.numLoans",
	"simulation.numTrials",
	"simulation.baseDiscountRate",
	"simulation.rateShockStdDev",
}

type Simulation struct {
	NumLoans         int                         `json:"numLoans" yaml:"numLoans"`
	NumTrials        int                         `json:"numTrials" yaml:"numTrials"`
	BaseDiscountRate float64                     `json:"baseDiscountRate" yaml:"baseDiscountRate"`
	RateShockStdDev  float64                     `json:"rateShockStdDev" yaml:"rateShockStdDev"`
	Distribution     montecarlo.DistributionType `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	DegreesOfFreedom float64                     `json:"degreesOfFreedom,omitempty" yaml:"degreesOfFreedom,omitempty"`
	Seed             uint64                      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Workers          int                         `json:"workers,omitempty" yaml:"workers,omitempty"`
}

type Output struct {
	// JSON prints the report as JSON instead of a table
	JSON bool `json:"json,omitempty" yaml:"json,omitempty"`

	// TrialsTSV is the path of the per-trial TSV file
	TrialsTSV string `json:"trialsTsv,omitempty" yaml:"trialsTsv,omitempty"`

	// ChartDir is the directory receiving the histogram PNG files
	ChartDir string `json:"chartDir,omitempty" yaml:"chartDir,omitempty"`

	// HistogramBins is the number of bins used by the histograms
	HistogramBins int `json:"histogramBins,omitempty" yaml:"histogramBins,omitempty"`
}

type Config struct {
	Loan       loan.Parameters `json:"loan" yaml:"loan"`
	Simulation Simulation      `json:"simulation" yaml:"simulation"`
	Output     Output          `json:"output,omitempty" yaml:"output,omitempty"`
}

type Stash map[string]interface{}

// Lookup walks a dotted key path through nested maps
func (s Stash) Lookup(path string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(s)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}

		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

func loadStash(body []byte) (Stash, error) {
	stash := make(Stash)
	if err := yaml.Unmarshal(body, &stash); err != nil {
		return nil, err
	}

	return stash, nil
}

func checkRequired(stash Stash) (err error) {
	for _, field := range requiredFields {
		if v, ok := stash.Lookup(field); !ok || v == nil {
			err = multierr.Append(err, errors.Wrapf(ErrMissingField, "%s", field))
		}
	}
	return err
}

// Load reads a yaml config file, checks the required keys and applies the
// LOANMC_SEED / LOANMC_WORKERS environment overrides.
func Load(configFile string) (*Config, error) {
	body, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	config, err := Parse(body)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configFile)
	}

	return config, nil
}

func Parse(body []byte) (*Config, error) {
	stash, err := loadStash(body)
	if err != nil {
		return nil, errors.Wrap(err, "yaml parsing error")
	}

	if err := checkRequired(stash); err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(body, &config); err != nil {
		return nil, errors.Wrap(err, "yaml parsing error")
	}

	distribution, err := montecarlo.ParseDistributionType(string(config.Simulation.Distribution))
	if err != nil {
		return nil, err
	}
	config.Simulation.Distribution = distribution

	config.applyEnv()
	return &config, nil
}

func (c *Config) applyEnv() {
	if seed, ok := envvar.Uint64("LOANMC_SEED"); ok {
		c.Simulation.Seed = seed
	}

	envvar.SetInt("LOANMC_WORKERS", &c.Simulation.Workers)
}

// EngineConfig converts the file config into the immutable engine config
func (c *Config) EngineConfig() montecarlo.Config {
	return montecarlo.Config{
		NumLoans:         c.Simulation.NumLoans,
		NumTrials:        c.Simulation.NumTrials,
		Loan:             c.Loan,
		BaseDiscountRate: c.Simulation.BaseDiscountRate,
		RateShockStdDev:  c.Simulation.RateShockStdDev,
		Distribution:     c.Simulation.Distribution,
		DegreesOfFreedom: c.Simulation.DegreesOfFreedom,
		Seed:             c.Simulation.Seed,
		Workers:          c.Simulation.Workers,
	}
}
