package cli

import (
	"github.com/spf13/cobra"

	"github.com/l7mp/faq/pkg/loader"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <query-file>...",
		Short: "Check query documents without evaluating them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(string(rootOpts.Output), cmd.OutOrStdout())
			for _, file := range args {
				q, err := loader.Load(file)
				if err == nil {
					err = loader.Check(q)
				}
				if err != nil {
					return err
				}
				if err := p.printValid(file, q); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
