package cmd

import (
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify deposit data",
	Long:  `Verify deposit data against expected validator and withdrawal credentials.`,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
