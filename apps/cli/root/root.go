package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the Slotwise admin CLI. Subcommands (seed, etc.) are attached here.
var rootCmd = &cobra.Command{
	Use:           "slotwise",
	Short:         "Slotwise admin CLI",
	Long:          "Administrative utilities for Slotwise (seed data, bootstrap helpers).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
