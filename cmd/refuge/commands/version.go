package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelterhq/refuge/version"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetVersionInfo()
			fmt.Printf("refuge %s (revision %s, built %s, %s)\n",
				info.Version, info.Revision, info.BuiltAt, info.GoVersion)
		},
	}
}
