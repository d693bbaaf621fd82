package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"chainstd/logx"
)

var rootCmd = &cobra.Command{
	Use:   "chainstd",
	Short: "Composable ledger contract CLI",
	Long:  "Command line interface for deploying and operating composable ledger contracts.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
