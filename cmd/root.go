package cmd

import (
	"fmt"
	"os"

	"MeloFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "melofm",
	Short: "MeloFM is a local media-library player.",
	Run: func(cmd *cobra.Command, args []string) {
		// With no subcommand we behave like `melofm server`.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
