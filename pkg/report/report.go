package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/c9s/loanmc/pkg/data/tsv"
	"github.com/c9s/loanmc/pkg/montecarlo"
	"github.com/c9s/loanmc/pkg/risk"
	"github.com/c9s/loanmc/pkg/style"
)

var log = logrus.WithField("component", "report")

const DefaultRiskConfidence = 0.95

// ValuationReport is the summary of a portfolio valuation run
type ValuationReport struct {
	Config montecarlo.Config `json:"config"`

	// FaceValue is the total principal lent across the portfolio
	FaceValue float64 `json:"faceValue"`

	PortfolioValue Summary `json:"portfolioValue"`
	DiscountRate   Summary `json:"discountRate"`

	// ValueAtRisk and ExpectedShortfall are measured from the mean portfolio value
	// at RiskConfidence
	RiskConfidence    float64 `json:"riskConfidence"`
	ValueAtRisk       float64 `json:"valueAtRisk"`
	ExpectedShortfall float64 `json:"expectedShortfall"`

	// RateSensitivity is nil when the shocks carry no variance
	RateSensitivity *risk.RateSensitivity `json:"rateSensitivity,omitempty"`

	RunID string `json:"runId"`

	Duration time.Duration `json:"duration"`
}

func New(result *montecarlo.Result) *ValuationReport {
	c := result.Config
	sensitivity, err := risk.FitRateSensitivity(result.Values, result.Shocks)
	if err != nil {
		log.WithError(err).Debug("skipping rate sensitivity")
	}

	return &ValuationReport{
		Config:         c,
		FaceValue:      float64(c.NumLoans) * c.Loan.Principal,
		PortfolioValue: Summarize(result.Values),
		DiscountRate:   Summarize(result.Rates),

		RiskConfidence:    DefaultRiskConfidence,
		ValueAtRisk:       risk.ValueAtRisk(result.Values, DefaultRiskConfidence),
		ExpectedShortfall: risk.ExpectedShortfall(result.Values, DefaultRiskConfidence),
		RateSensitivity:   sensitivity,

		RunID:    result.RunID,
		Duration: result.Duration,
	}
}

func (r *ValuationReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Print renders the report as tables. tableStyle may be nil for the plain style.
func (r *ValuationReport) Print(w io.Writer, tableStyle *table.Style) {
	if tableStyle == nil {
		tableStyle = style.NewPlainTableStyle()
	}

	header := color.New(color.FgHiGreen, color.Bold)
	header.Fprintln(w, "MONTE CARLO DCF VALUATION OF LOAN PORTFOLIO")
	header.Fprintln(w, "===============================================")

	c := r.Config
	params := table.NewWriter()
	params.SetOutputMirror(w)
	params.SetStyle(*tableStyle)
	params.SetTitle("Inputs")
	params.AppendRows([]table.Row{
		{"Number of Loans", c.NumLoans},
		{"Simulations", c.NumTrials},
		{"Principal", style.FormatUSD(c.Loan.Principal)},
		{"Annual Rate", style.FormatPercentage(c.Loan.AnnualRate, 2)},
		{"Term (years)", c.Loan.Term},
		{"Default Probability", style.FormatPercentage(c.Loan.DefaultProbability, 2)},
		{"Prepay Probability", style.FormatPercentage(c.Loan.PrepayProbability, 2)},
		{"Base Discount Rate", style.FormatPercentage(c.BaseDiscountRate, 2)},
		{"Rate Shock Std Dev", style.FormatPercentage(c.RateShockStdDev, 2)},
		{"Shock Distribution", string(c.Distribution)},
		{"Seed", c.Seed},
	})
	params.Render()

	v := r.PortfolioValue
	d := r.DiscountRate
	results := table.NewWriter()
	results.SetOutputMirror(w)
	results.SetStyle(*tableStyle)
	results.SetTitle("Results")
	results.AppendHeader(table.Row{"statistic", "portfolio value", "discount rate"})
	results.AppendRows([]table.Row{
		{"Mean", style.FormatUSD(v.Mean), style.FormatPercentage(d.Mean, 2)},
		{"Median", style.FormatUSD(v.Median), style.FormatPercentage(d.Median, 2)},
		{"Standard Deviation", style.FormatUSD(v.StdDev), style.FormatPercentage(d.StdDev, 2)},
		{"5th Percentile (Downside Risk)", style.FormatUSD(v.P5), style.FormatPercentage(d.P5, 2)},
		{"95th Percentile (Upside Potential)", style.FormatUSD(v.P95), style.FormatPercentage(d.P95, 2)},
		{"Min", style.FormatUSD(v.Min), style.FormatPercentage(d.Min, 2)},
		{"Max", style.FormatUSD(v.Max), style.FormatPercentage(d.Max, 2)},
	})
	results.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	results.Render()

	confidence := style.FormatPercentage(r.RiskConfidence, 0)
	fmt.Fprintf(w, "Value at Risk (%s): %s\n", confidence, style.FormatUSD(r.ValueAtRisk))
	fmt.Fprintf(w, "Expected Shortfall (%s): %s\n", confidence, style.FormatUSD(r.ExpectedShortfall))
	if r.RateSensitivity != nil {
		fmt.Fprintf(w, "Value change per +100bp shock: %s (R2 %.3f)\n",
			style.FormatUSD(r.RateSensitivity.PerBasisPoints(100)), r.RateSensitivity.R2)
	}

	if v.Mean >= r.FaceValue {
		color.New(color.FgGreen).Fprintf(w, "MEAN VALUE ABOVE FACE VALUE %s: +%s\n", style.FormatUSD(r.FaceValue), style.FormatUSD(v.Mean-r.FaceValue))
	} else {
		color.New(color.FgRed).Fprintf(w, "MEAN VALUE BELOW FACE VALUE %s: -%s\n", style.FormatUSD(r.FaceValue), style.FormatUSD(r.FaceValue-v.Mean))
	}

	fmt.Fprintf(w, "run %s simulated in %s\n", r.RunID, r.Duration)
}

// WriteTrialsTSV writes one row per trial: trial index, shock, discount rate, portfolio value.
func WriteTrialsTSV(filename string, result *montecarlo.Result) error {
	w, err := tsv.NewWriterFile(filename)
	if err != nil {
		return errors.Wrapf(err, "can not create trials file %s", filename)
	}

	if err := writeTrials(w, result); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

func writeTrials(w *tsv.Writer, result *montecarlo.Result) error {
	if err := w.Write([]string{"trial", "shock", "discountRate", "portfolioValue"}); err != nil {
		return err
	}

	for i := range result.Values {
		if err := w.WriteIndexed(i, result.Shocks[i], result.Rates[i], result.Values[i]); err != nil {
			return err
		}
	}

	return nil
}
