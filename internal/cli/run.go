package cli

import (
	"github.com/spf13/cobra"

	"github.com/l7mp/faq/pkg/faq"
	"github.com/l7mp/faq/pkg/loader"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <query-file>",
		Short: "Evaluate a query document",
		Long: `Evaluate a query document and print the output relation and the elimination trace.

Example:
  faq run testdata/triangle.yaml
  faq run --mode pairwise -o json testdata/burglary.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := evaluate(rootOpts, args[0])
			if err != nil {
				return err
			}
			return newPrinter(string(rootOpts.Output), cmd.OutOrStdout()).printResult(res)
		},
	}
}

func evaluate(opts *RootOptions, file string) (*loader.Result, error) {
	log := opts.Logger.WithValues("file", file)

	q, err := loader.Load(file)
	if err != nil {
		return nil, err
	}

	log.V(1).Info("evaluating query", "name", q.GetName())
	res, err := loader.Run(q, loader.Options{Logger: opts.Logger, Mode: faq.Mode(opts.Mode)})
	if err != nil {
		log.Error(err, "evaluation failed")
		return nil, err
	}

	return res, nil
}
