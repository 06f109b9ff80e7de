package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the Acervo admin CLI. Subcommands (auth, bootstrap, etc.) are attached here.
var rootCmd = &cobra.Command{
	Use:           "acervo",
	Short:         "Acervo admin CLI",
	Long:          "Administrative utilities for Acervo (dev tokens, schema bootstrap, catalog management).",
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
