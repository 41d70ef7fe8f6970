package cmd

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/x-cray/logrus-prefixed-formatter"

	"github.com/c9s/loanmc/pkg/cmd/cmdutil"
)

var RootCmd = &cobra.Command{
	Use:   "loanmc",
	Short: "loan portfolio monte carlo valuation",
	Long:  "values an amortizing loan portfolio under stochastic interest rate shocks",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvFile, err := cmd.Flags().GetString("dotenv")
		if err != nil {
			return err
		}

		if _, err := os.Stat(dotenvFile); err == nil {
			if err := godotenv.Load(dotenvFile); err != nil {
				return errors.Wrapf(err, "error loading dotenv file %s", dotenvFile)
			}
		}

		setupLogging(viper.GetBool("debug"), os.Getenv("LOANMC_ENV"))
		return nil
	},
}

func init() {
	cmdutil.PersistentFlags(RootCmd.PersistentFlags())
}

func setupLogging(debug bool, environment string) {
	logrus.SetFormatter(&prefixed.TextFormatter{})

	logger := logrus.StandardLogger()
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	switch environment {
	case "production", "prod":
		writer, err := rotatelogs.New(
			path.Join("log", "loanmc_log.%Y%m%d"),
			rotatelogs.WithLinkName("loanmc_log"),
			rotatelogs.WithRotationTime(time.Duration(24)*time.Hour),
		)
		if err != nil {
			logrus.Panic(err)
		}
		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					logrus.DebugLevel: writer,
					logrus.InfoLevel:  writer,
					logrus.WarnLevel:  writer,
					logrus.ErrorLevel: writer,
					logrus.FatalLevel: writer,
				},
				&logrus.JSONFormatter{},
			),
		)
	}
}

func Execute() {
	viper.SetEnvPrefix("loanmc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		logrus.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := RootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatalf("cannot execute command")
	}
}
