package cmd

import (
	"github.com/spf13/cobra"
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit data tools",
	Long:  `Inspect deposit data files.`,
}

func init() {
	rootCmd.AddCommand(depositCmd)
}
