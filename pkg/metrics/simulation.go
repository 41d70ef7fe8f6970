package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var SimulationTrialsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loanmc_trials_total",
		Help: "number of completed monte carlo trials",
	}, []string{"distribution"})

var SimulationRunDurationMetrics = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "loanmc_run_duration_seconds",
		Help:    "wall clock duration of a simulation run",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"distribution"})

var LastRunMeanValueMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "loanmc_last_run_mean_value",
		Help: "mean discounted portfolio value of the last run, in USD",
	}, []string{"distribution"})

var LastRunTrialsMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "loanmc_last_run_trials",
		Help: "number of trials of the last run",
	}, []string{"distribution"})

func init() {
	prometheus.MustRegister(
		SimulationTrialsMetrics,
		SimulationRunDurationMetrics,
		LastRunMeanValueMetrics,
		LastRunTrialsMetrics,
	)
}

// WriteText dumps the metrics gathered by g in the prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
