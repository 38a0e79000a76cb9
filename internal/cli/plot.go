package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/l7mp/faq/pkg/visualize"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	Format string
	File   string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot <query-file>",
		Short: "Render the elimination of a query as a graph",
		Long: `Evaluate a query document and render the factors, the elimination steps and the
variables they remove as a Graphviz or Mermaid graph.

Example:
  faq plot testdata/triangle.yaml | dot -Tsvg > triangle.svg
  faq plot --format mermaid --file triangle.md testdata/triangle.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plot(opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "dot", "graph format (dot|mermaid)")
	cmd.Flags().StringVar(&opts.File, "file", "", "write the graph to this file instead of the standard output")

	return cmd
}

func plot(opts *PlotOptions, file string, w io.Writer) error {
	gen, err := visualize.NewGenerator(opts.Format)
	if err != nil {
		return err
	}

	res, err := evaluate(opts.RootOptions, file)
	if err != nil {
		return err
	}

	g := visualize.BuildGraph(res.Name, res.Factors, res.FactorNames, res.Trace)
	out := gen.Generate(g)

	if opts.File == "" {
		_, err := io.WriteString(w, out)
		return err
	}
	if err := os.WriteFile(opts.File, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	opts.Logger.V(1).Info("graph written", "file", opts.File, "format", gen.Extension())
	return nil
}
