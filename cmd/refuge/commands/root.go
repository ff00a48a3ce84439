// Package commands defines the refuge CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "refuge",
		Short: "Shelter search index synchronization and faceted query service",
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")

	rootCmd.AddCommand(
		NewServeCommand(),
		NewReindexCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
