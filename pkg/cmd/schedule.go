package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/c9s/loanmc/pkg/loan"
	"github.com/c9s/loanmc/pkg/style"
)

func init() {
	ScheduleCmd.Flags().Float64("shock", 0, "rate shock applied to the loan rate, e.g. 0.01 for +100bp")
	ScheduleCmd.Flags().Bool("json", false, "print the schedule in json format")
	RootCmd.AddCommand(ScheduleCmd)
}

var ScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "print the amortization schedule of a single loan",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		userConfig, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		shock, err := cmd.Flags().GetFloat64("shock")
		if err != nil {
			return err
		}

		printJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}

		params := userConfig.Loan
		if err := params.Validate(); err != nil {
			return err
		}

		schedule := loan.AmortizationSchedule(params, shock)
		out := cmd.OutOrStdout()
		if printJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(schedule)
		}

		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(*style.NewPlainTableStyle())
		t.SetTitle(fmt.Sprintf("%s at %s for %d years",
			style.FormatUSD(params.Principal),
			style.FormatPercentage(loan.EffectiveRate(params.AnnualRate, shock), 2),
			params.Term))
		t.AppendHeader(table.Row{"period", "opening balance", "payment", "interest", "principal", "closing balance"})
		for _, row := range schedule {
			t.AppendRow(table.Row{
				row.Period,
				style.FormatUSD(row.OpeningBalance),
				style.FormatUSD(row.Payment),
				style.FormatUSD(row.Interest),
				style.FormatUSD(row.Principal),
				style.FormatUSD(row.ClosingBalance),
			})
		}
		t.AppendFooter(table.Row{"total", "", style.FormatUSD(loan.TotalPayments(schedule)), "", "", ""})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
			{Number: 5, Align: text.AlignRight},
			{Number: 6, Align: text.AlignRight},
		})
		t.Render()
		return nil
	},
}
