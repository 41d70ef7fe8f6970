package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags shared by every command
func PersistentFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "debug flag")
	flags.String("config", "config/loanmc.yaml", "config file")
	flags.String("dotenv", ".env.local", "the dotenv file you want to load")
}

// SimulationFlags defines the flags that override the simulation section of the config file
func SimulationFlags(flags *pflag.FlagSet) {
	flags.Int("trials", 0, "number of monte carlo trials")
	flags.Int("loans", 0, "number of loans in the portfolio")
	flags.Uint64("seed", 0, "random seed of the run")
	flags.Int("workers", 0, "number of concurrent trial workers, 0 means GOMAXPROCS")
	flags.String("distribution", "", "rate shock distribution: normal or student-t")
	flags.Float64("dof", 0, "degrees of freedom of the student-t distribution")
}
