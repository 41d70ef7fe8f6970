package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/loanmc/pkg/chart"
	"github.com/c9s/loanmc/pkg/cmd/cmdutil"
	"github.com/c9s/loanmc/pkg/config"
	"github.com/c9s/loanmc/pkg/metrics"
	"github.com/c9s/loanmc/pkg/montecarlo"
	"github.com/c9s/loanmc/pkg/profile/timeprofile"
	"github.com/c9s/loanmc/pkg/report"
	"github.com/c9s/loanmc/pkg/style"
	"github.com/c9s/loanmc/pkg/util"
)

var log = logrus.WithField("component", "cmd")

func init() {
	cmdutil.SimulationFlags(SimulateCmd.Flags())
	SimulateCmd.Flags().Bool("json", false, "print the valuation report in json format")
	SimulateCmd.Flags().String("output-tsv", "", "write the per-trial results to this TSV file")
	SimulateCmd.Flags().String("chart-dir", "", "render the value and discount rate histograms into this directory")
	SimulateCmd.Flags().Int("bins", 0, "number of histogram bins")
	SimulateCmd.Flags().Bool("metrics", false, "dump the run metrics in prometheus text format to stderr")
	SimulateCmd.Flags().Bool("no-progress", false, "hide the progress bar")
	RootCmd.AddCommand(SimulateCmd)
}

var SimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "run the monte carlo valuation of the loan portfolio",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		userConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if err := applyOutputFlags(cmd, &userConfig.Output); err != nil {
			return err
		}

		showProgress := true
		if noProgress, err := cmd.Flags().GetBool("no-progress"); err != nil {
			return err
		} else if noProgress || userConfig.Output.JSON {
			showProgress = false
		}

		printMetrics, err := cmd.Flags().GetBool("metrics")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			if sig := cmdutil.WaitForSignal(ctx, syscall.SIGINT, syscall.SIGTERM); sig != nil {
				log.Warnf("received %s, stopping the simulation", sig)
				cancel()
			}
		}()

		profile := timeprofile.Start("simulate")
		result, err := runSimulation(ctx, userConfig.EngineConfig(), showProgress, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		valuation := report.New(result)
		if userConfig.Output.JSON {
			if err := valuation.WriteJSON(out); err != nil {
				return err
			}
		} else {
			tableStyle := style.NewDefaultTableStyle()
			if color.NoColor {
				tableStyle = style.NewPlainTableStyle()
			}
			valuation.Print(out, tableStyle)
		}

		if filename := userConfig.Output.TrialsTSV; filename != "" {
			if err := report.WriteTrialsTSV(filename, result); err != nil {
				return err
			}
			log.Infof("trial results written to %s", filename)
		}

		if dir := userConfig.Output.ChartDir; dir != "" {
			if err := renderCharts(dir, userConfig.Output.HistogramBins, valuation, result); err != nil {
				return err
			}
			log.Infof("histograms rendered into %s", dir)
		}

		if printMetrics {
			util.LogErr(metrics.WriteText(cmd.ErrOrStderr(), prometheus.DefaultGatherer), "can not write metrics")
		}

		profile.StopAndLog(log)
		return nil
	},
}

func runSimulation(ctx context.Context, c montecarlo.Config, showProgress bool, progressWriter io.Writer) (*montecarlo.Result, error) {
	// fail before the progress bar is drawn
	if err := c.Validate(); err != nil {
		return nil, err
	}

	engine := montecarlo.NewEngine(c)
	if !showProgress {
		return engine.Run(ctx)
	}

	bar := pb.Full.New(c.NumTrials)
	bar.SetWriter(progressWriter)
	bar.SetTemplateString(`{{ string . "log" | green}} | {{counters . }} {{bar . }} {{percent . }} {{etime . }} {{rtime . "ETA %s"}}`)
	bar.Set("log", fmt.Sprintf("%d loans", c.NumLoans))
	bar.Start()

	engine.OnTrialDone = func(trial int) {
		bar.Increment()
	}

	result, err := engine.Run(ctx)
	bar.Finish()
	return result, err
}

func applyOutputFlags(cmd *cobra.Command, output *config.Output) error {
	flags := cmd.Flags()

	if flags.Changed("json") {
		v, err := flags.GetBool("json")
		if err != nil {
			return err
		}
		output.JSON = v
	}

	if flags.Changed("output-tsv") {
		v, err := flags.GetString("output-tsv")
		if err != nil {
			return err
		}
		output.TrialsTSV = v
	}

	if flags.Changed("chart-dir") {
		v, err := flags.GetString("chart-dir")
		if err != nil {
			return err
		}
		output.ChartDir = v
	}

	if flags.Changed("bins") {
		v, err := flags.GetInt("bins")
		if err != nil {
			return err
		}
		output.HistogramBins = v
	}

	return nil
}

func renderCharts(dir string, bins int, valuation *report.ValuationReport, result *montecarlo.Result) error {
	values := chart.NewHistogram("Distribution of Portfolio Values", result.Values, bins)
	values.XLabel = "Portfolio Value (USD)"
	values.XValueFormatter = func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return style.FormatUSD(f)
		}
		return ""
	}
	values.BarColor = func(x float64) string {
		return style.PremiumColor(x, valuation.FaceValue)
	}

	if err := values.RenderPNG(filepath.Join(dir, "portfolio_values.png")); err != nil {
		return errors.Wrap(err, "portfolio value histogram")
	}

	rates := chart.NewHistogram("Distribution of Discount Rates", result.Rates, bins)
	rates.XLabel = "Discount Rate"
	rates.XValueFormatter = func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return style.FormatPercentage(f, 1)
		}
		return ""
	}

	if err := rates.RenderPNG(filepath.Join(dir, "discount_rates.png")); err != nil {
		return errors.Wrap(err, "discount rate histogram")
	}

	return nil
}

// loadConfig loads the config file and applies the simulation flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if len(configFile) == 0 {
		return nil, errors.New("--config option is required")
	}

	if _, err := os.Stat(configFile); err != nil {
		return nil, errors.Wrapf(err, "config file %s not found", configFile)
	}

	userConfig, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if err := applySimulationFlags(cmd, &userConfig.Simulation); err != nil {
		return nil, err
	}

	return userConfig, nil
}

func applySimulationFlags(cmd *cobra.Command, sim *config.Simulation) error {
	flags := cmd.Flags()
	if flags.Lookup("trials") == nil {
		return nil
	}

	if flags.Changed("trials") {
		v, err := flags.GetInt("trials")
		if err != nil {
			return err
		}
		sim.NumTrials = v
	}

	if flags.Changed("loans") {
		v, err := flags.GetInt("loans")
		if err != nil {
			return err
		}
		sim.NumLoans = v
	}

	if flags.Changed("seed") {
		v, err := flags.GetUint64("seed")
		if err != nil {
			return err
		}
		sim.Seed = v
	}

	if flags.Changed("workers") {
		v, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		sim.Workers = v
	}

	if flags.Changed("distribution") {
		v, err := flags.GetString("distribution")
		if err != nil {
			return err
		}

		distribution, err := montecarlo.ParseDistributionType(v)
		if err != nil {
			return err
		}
		sim.Distribution = distribution
	}

	if flags.Changed("dof") {
		v, err := flags.GetFloat64("dof")
		if err != nil {
			return err
		}
		sim.DegreesOfFreedom = v
	}

	return nil
}
