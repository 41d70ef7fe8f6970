package montecarlo

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/loanmc/pkg/datatype/floats"
	"github.com/c9s/loanmc/pkg/discount"
	"github.com/c9s/loanmc/pkg/loan"
	"github.com/c9s/loanmc/pkg/metrics"
	"github.com/c9s/loanmc/pkg/profile/timeprofile"
)

var log = logrus.WithField("component", "montecarlo")

// Result holds the outcome of a run. Values[i], Rates[i] and Shocks[i] belong to trial i.
type Result struct {
	// RunID identifies the run in logs and reports
	RunID string `json:"runId"`

	Config Config `json:"config"`

	// Values are the discounted portfolio values in USD
	Values []float64 `json:"values"`

	// Rates are the floored discount rates applied in each trial
	Rates []float64 `json:"rates"`

	// Shocks are the raw rate shocks drawn in each trial
	Shocks []float64 `json:"shocks"`

	Duration time.Duration `json:"duration"`
}

// TrialResult is the outcome of a single trial
type TrialResult struct {
	Value float64
	Rate  float64
	Shock float64
}

type Engine struct {
	Config Config

	// OnTrialDone is called after every completed trial, possibly from several goroutines at once
	OnTrialDone func(trial int)
}

func NewEngine(c Config) *Engine {
	return &Engine{Config: c}
}

// Run validates the config and runs it on a new engine.
func Run(ctx context.Context, c Config) (*Result, error) {
	return NewEngine(c).Run(ctx)
}

func (e *Engine) workers() int {
	n := e.Config.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	if n > e.Config.NumTrials {
		n = e.Config.NumTrials
	}

	return n
}

// Run executes every trial of the configured run. The config is validated before any
// trial starts and an invalid config returns an error matching ErrInvalidArgument.
// Cancelling ctx stops the workers between trials and Run returns the context error
// without a partial result.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	c := e.Config
	if err := c.Validate(); err != nil {
		return nil, err
	}

	distribution := string(c.distribution())
	profile := timeprofile.Start("montecarlo")

	result := &Result{
		RunID:  uuid.NewString(),
		Config: c,
		Values: make([]float64, c.NumTrials),
		Rates:  make([]float64, c.NumTrials),
		Shocks: make([]float64, c.NumTrials),
	}

	numWorkers := e.workers()
	trialsPerWorker := c.NumTrials / numWorkers
	if c.NumTrials%numWorkers > 0 {
		trialsPerWorker++
	}

	runLog := log.WithField("run", result.RunID)
	runLog.WithFields(logrus.Fields{
		"loans":        c.NumLoans,
		"trials":       c.NumTrials,
		"workers":      numWorkers,
		"distribution": distribution,
		"seed":         c.Seed,
	}).Info("starting portfolio simulation")

	trialCounter := metrics.SimulationTrialsMetrics.WithLabelValues(distribution)

	eg, egCtx := errgroup.WithContext(ctx)
	for start := 0; start < c.NumTrials; start += trialsPerWorker {
		start, end := start, min(start+trialsPerWorker, c.NumTrials)
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if err := egCtx.Err(); err != nil {
					return err
				}

				tr := SimulateTrial(c, i)
				result.Values[i] = tr.Value
				result.Rates[i] = tr.Rate
				result.Shocks[i] = tr.Shock

				trialCounter.Inc()
				if e.OnTrialDone != nil {
					e.OnTrialDone(i)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		runLog.WithError(err).Warn("portfolio simulation aborted")
		return nil, err
	}

	// errgroup only reports worker errors, a cancellation after the last trial is still a cancellation
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Duration = profile.Stop()
	metrics.SimulationRunDurationMetrics.WithLabelValues(distribution).Observe(result.Duration.Seconds())
	metrics.LastRunMeanValueMetrics.WithLabelValues(distribution).Set(floats.Average(result.Values))
	metrics.LastRunTrialsMetrics.WithLabelValues(distribution).Set(float64(c.NumTrials))

	runLog.WithField("duration", result.Duration.String()).Info("portfolio simulation finished")
	return result, nil
}

// SimulateTrial runs trial i of a validated config. The trial draws from its own
// random stream seeded by (c.Seed, i), so the outcome does not depend on which
// worker executes it.
func SimulateTrial(c Config, i int) TrialResult {
	src, rnd := newTrialRand(c.Seed, i)
	shock := newShockSampler(c, src).Rand()

	return simulatePortfolio(c, shock, rnd)
}

// simulatePortfolio values the portfolio under one macro shock shared by all loans
func simulatePortfolio(c Config, shock float64, rnd loan.RandomSource) TrialResult {
	rate := math.Max(0, c.BaseDiscountRate+shock)
	if math.IsNaN(rate) || rate <= -1 {
		panic(errors.Wrapf(ErrNumericDegeneracy, "discount rate %v (base %v, shock %v)", rate, c.BaseDiscountRate, shock))
	}

	aggregate := floats.Zeros(c.Loan.Term)
	for n := 0; n < c.NumLoans; n++ {
		aggregate.Accumulate(loan.SimulateCashflows(c.Loan, shock, rnd))
	}

	return TrialResult{
		Value: discount.PresentValue(aggregate, rate),
		Rate:  rate,
		Shock: shock,
	}
}
