package montecarlo

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/loanmc/pkg/discount"
	"github.com/c9s/loanmc/pkg/loan"
)

func exampleConfig() Config {
	return Config{
		NumLoans:  50,
		NumTrials: 200,
		Loan: loan.Parameters{
			Principal:          10000.0,
			AnnualRate:         0.10,
			Term:               10,
			DefaultProbability: 0.02,
			PrepayProbability:  0.05,
		},
		BaseDiscountRate: 0.08,
		RateShockStdDev:  0.02,
		Seed:             42,
		Workers:          4,
	}
}

type constantSource float64

func (s constantSource) Float64() float64 { return float64(s) }

func TestEngine_Run(t *testing.T) {
	c := exampleConfig()
	result, err := Run(context.Background(), c)
	require.NoError(t, err)

	assert.Len(t, result.Values, c.NumTrials)
	assert.Len(t, result.Rates, c.NumTrials)
	assert.Len(t, result.Shocks, c.NumTrials)
	assert.Equal(t, c, result.Config)
	assert.NotEmpty(t, result.RunID)

	for i := range result.Rates {
		assert.GreaterOrEqual(t, result.Rates[i], 0.0)
		assert.InDelta(t, max(0, c.BaseDiscountRate+result.Shocks[i]), result.Rates[i], 1e-15)
		assert.Greater(t, result.Values[i], 0.0)
	}
}

func TestEngine_Run_WorkerCountDoesNotChangeResult(t *testing.T) {
	c := exampleConfig()
	c.NumTrials = 37

	var results []*Result
	for _, workers := range []int{1, 3, 8, 64} {
		c.Workers = workers
		result, err := Run(context.Background(), c)
		require.NoError(t, err)
		results = append(results, result)
	}

	for _, result := range results[1:] {
		assert.Equal(t, results[0].Values, result.Values)
		assert.Equal(t, results[0].Rates, result.Rates)
		assert.Equal(t, results[0].Shocks, result.Shocks)
	}
}

func TestEngine_Run_SeedChangesResult(t *testing.T) {
	c := exampleConfig()
	c.NumTrials = 10

	a, err := Run(context.Background(), c)
	require.NoError(t, err)

	c.Seed = 43
	b, err := Run(context.Background(), c)
	require.NoError(t, err)

	assert.NotEqual(t, a.Shocks, b.Shocks)
}

func TestEngine_Run_MatchesSimulateTrial(t *testing.T) {
	c := exampleConfig()
	c.NumTrials = 5

	result, err := Run(context.Background(), c)
	require.NoError(t, err)

	for i := 0; i < c.NumTrials; i++ {
		tr := SimulateTrial(c, i)
		assert.Equal(t, tr.Value, result.Values[i])
		assert.Equal(t, tr.Rate, result.Rates[i])
		assert.Equal(t, tr.Shock, result.Shocks[i])
	}
}

func TestEngine_Run_ForcedDefaultSingleLoan(t *testing.T) {
	c := exampleConfig()
	c.NumLoans = 1
	c.NumTrials = 1
	c.RateShockStdDev = 0
	c.Loan.DefaultProbability = 1.0
	c.Loan.PrepayProbability = 0

	result, err := Run(context.Background(), c)
	require.NoError(t, err)

	payment := loan.ScheduledPayment(c.Loan.Principal, c.Loan.AnnualRate, c.Loan.Term)
	assert.Equal(t, []float64{0.08}, result.Rates)
	assert.InDelta(t, payment/1.08, result.Values[0], 1e-9)
}

func TestEngine_Run_NoShockNoEvents(t *testing.T) {
	c := exampleConfig()
	c.NumLoans = 3
	c.NumTrials = 4
	c.RateShockStdDev = 0
	c.Loan.DefaultProbability = 0
	c.Loan.PrepayProbability = 0

	result, err := Run(context.Background(), c)
	require.NoError(t, err)

	schedule := loan.AmortizationSchedule(c.Loan, 0)
	cashflows := make([]float64, len(schedule))
	for i, row := range schedule {
		cashflows[i] = 3 * row.Payment
	}
	expected := discount.PresentValue(cashflows, 0.08)

	for _, v := range result.Values {
		assert.InDelta(t, expected, v, 1e-6)
	}
}

func TestEngine_Run_StudentT(t *testing.T) {
	c := exampleConfig()
	c.NumTrials = 50
	c.Distribution = DistributionStudentT
	c.DegreesOfFreedom = 4

	result, err := Run(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, result.Values, 50)
	for _, r := range result.Rates {
		assert.GreaterOrEqual(t, r, 0.0)
	}
}

func TestEngine_Run_OnTrialDone(t *testing.T) {
	c := exampleConfig()
	c.NumTrials = 25

	var done int64
	engine := NewEngine(c)
	engine.OnTrialDone = func(trial int) {
		atomic.AddInt64(&done, 1)
	}

	_, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(25), atomic.LoadInt64(&done))
}

func TestEngine_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var done int64
	engine := NewEngine(exampleConfig())
	engine.OnTrialDone = func(trial int) {
		atomic.AddInt64(&done, 1)
	}

	result, err := engine.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.Equal(t, int64(0), atomic.LoadInt64(&done))
}

func TestEngine_Run_InvalidArgument(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   []string
	}{
		{name: "loans", mutate: func(c *Config) { c.NumLoans = 0 }, want: []string{"numLoans"}},
		{name: "trials", mutate: func(c *Config) { c.NumTrials = -1 }, want: []string{"numTrials"}},
		{name: "term", mutate: func(c *Config) { c.Loan.Term = 0 }, want: []string{"term"}},
		{name: "principal", mutate: func(c *Config) { c.Loan.Principal = -5 }, want: []string{"principal"}},
		{name: "std dev", mutate: func(c *Config) { c.RateShockStdDev = -0.01 }, want: []string{"rateShockStdDev"}},
		{name: "student-t without dof", mutate: func(c *Config) { c.Distribution = DistributionStudentT }, want: []string{"degreesOfFreedom"}},
		{name: "unknown distribution", mutate: func(c *Config) { c.Distribution = "cauchy" }, want: []string{"cauchy"}},
		{name: "infinite principal", mutate: func(c *Config) { c.Loan.Principal = math.Inf(1) }, want: []string{"principal"}},
		{name: "infinite degrees of freedom", mutate: func(c *Config) {
			c.Distribution = DistributionStudentT
			c.DegreesOfFreedom = math.Inf(1)
		}, want: []string{"degreesOfFreedom"}},
		{name: "workers", mutate: func(c *Config) { c.Workers = -2 }, want: []string{"workers"}},
		{
			name: "several at once",
			mutate: func(c *Config) {
				c.NumLoans = 0
				c.NumTrials = 0
				c.Loan.Principal = 0
			},
			want: []string{"numLoans", "numTrials", "principal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := exampleConfig()
			tt.mutate(&c)

			var done int64
			engine := NewEngine(c)
			engine.OnTrialDone = func(trial int) {
				atomic.AddInt64(&done, 1)
			}

			result, err := engine.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, result)
			assert.Equal(t, int64(0), atomic.LoadInt64(&done))
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestSimulatePortfolio_SharedShock(t *testing.T) {
	c := exampleConfig()
	c.NumLoans = 4
	c.Loan.DefaultProbability = 0
	c.Loan.PrepayProbability = 0

	// a shock of -0.10 floors the discount rate and zeroes the loan rate for every loan
	tr := simulatePortfolio(c, -0.10, constantSource(0.5))
	assert.Equal(t, 0.0, tr.Rate)
	assert.Equal(t, -0.10, tr.Shock)
	assert.InDelta(t, 4*c.Loan.Principal, tr.Value, 1e-6)
}

func TestSimulatePortfolio_NumericDegeneracy(t *testing.T) {
	c := exampleConfig()
	c.BaseDiscountRate = math.NaN()

	assert.Panics(t, func() {
		simulatePortfolio(c, 0, constantSource(0.5))
	})
}

func TestParseDistributionType(t *testing.T) {
	d, err := ParseDistributionType("")
	require.NoError(t, err)
	assert.Equal(t, DistributionNormal, d)

	d, err = ParseDistributionType("Student-T")
	require.NoError(t, err)
	assert.Equal(t, DistributionStudentT, d)

	_, err = ParseDistributionType("levy")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTrialSeed(t *testing.T) {
	seen := map[uint64]struct{}{}
	for i := 0; i < 1000; i++ {
		s := trialSeed(7, i)
		_, dup := seen[s]
		assert.False(t, dup)
		seen[s] = struct{}{}
	}
	assert.NotEqual(t, trialSeed(7, 0), trialSeed(8, 0))
}

func TestStudentTScale(t *testing.T) {
	assert.InDelta(t, 0.02*math.Sqrt(3.0/5.0), studentTScale(0.02, 5), 1e-15)
	assert.Equal(t, 0.02, studentTScale(0.02, 2))
	assert.Equal(t, 0.02, studentTScale(0.02, 1))
}

func TestNewShockSampler_StudentTStdDev(t *testing.T) {
	c := exampleConfig()
	c.Distribution = DistributionStudentT
	c.DegreesOfFreedom = 5

	src, _ := newTrialRand(11, 0)
	sampler := newShockSampler(c, src)

	draws := make([]float64, 50000)
	for i := range draws {
		draws[i] = sampler.Rand()
	}

	_, variance := stat.MeanVariance(draws, nil)
	assert.InDelta(t, c.RateShockStdDev, math.Sqrt(variance), 0.05*c.RateShockStdDev)
}
