package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/deposit-verifier/pkg/deposit"
)

var (
	log = logrus.New()

	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deposit-verifier",
	Short: "Verifies beacon chain deposit data.",
	Long:  `Verifies beacon chain deposit data against the credentials you expect it to carry.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initCommon()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initCommon() error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", logLevel)
	}

	log.SetLevel(lvl)
	deposit.SetLogLevel(lvl)

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
}
