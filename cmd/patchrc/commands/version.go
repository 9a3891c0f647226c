package commands

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags
var version = "dev"

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the patchrc version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("patchrc " + version)
		},
	}
}
