package cli

import (
	"github.com/spf13/cobra"

	"github.com/l7mp/faq/internal/buildinfo"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions, info buildinfo.BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newPrinter(string(rootOpts.Output), cmd.OutOrStdout()).printVersion(info)
		},
	}
}
