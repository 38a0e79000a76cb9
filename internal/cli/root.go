// Package cli implements the faq command line interface.
package cli

import (
	goflag "flag"
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/l7mp/faq/internal/buildinfo"
	"github.com/l7mp/faq/pkg/faq"
)

// RootOptions holds the global flags shared by all commands.
type RootOptions struct {
	// Mode overrides the elimination mode of the query document.
	Mode string
	// Output is the result format.
	Output OutputFormat
	// Logger is set up from the zap flags before a command runs.
	Logger logr.Logger

	zapOpts zap.Options
}

// ValidOutputs lists the accepted result formats.
var ValidOutputs = []string{"text", "json", "yaml"}

// OutputFormat is the value of the output flag.
type OutputFormat string

var _ pflag.Value = (*OutputFormat)(nil)

func (o *OutputFormat) String() string { return string(*o) }

func (o *OutputFormat) Set(s string) error {
	if !slices.Contains(ValidOutputs, s) {
		return fmt.Errorf("must be one of %v", ValidOutputs)
	}
	*o = OutputFormat(s)
	return nil
}

func (o *OutputFormat) Type() string { return "format" }

// NewRootCommand creates the root command of the CLI.
func NewRootCommand(info buildinfo.BuildInfo) *cobra.Command {
	opts := &RootOptions{
		Output: "text",
		zapOpts: zap.Options{
			Development:     true,
			StacktraceLevel: zapcore.Level(3),
			TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
			Level:           zapcore.InfoLevel,
		},
	}

	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Evaluate functional aggregate queries",
		Long: `Evaluate functional aggregate queries with the InsideOut variable elimination algorithm.

A query is a product of factors over a commutative semiring together with an elimination
order. Each variable of the order is aggregated away in turn, the remaining variables are free
and survive into the output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := faq.ParseMode(opts.Mode); err != nil {
				return err
			}
			opts.zapOpts.DestWriter = cmd.ErrOrStderr()
			opts.Logger = zap.New(zap.UseFlagOptions(&opts.zapOpts)).WithName("faq")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Mode, "mode", "m", "",
		"elimination mode (global|pairwise), overrides the query document")
	cmd.PersistentFlags().VarP(&opts.Output, "output", "o", "output format (text|json|yaml)")

	fs := goflag.NewFlagSet("zap", goflag.ContinueOnError)
	opts.zapOpts.BindFlags(fs)
	cmd.PersistentFlags().AddGoFlagSet(fs)

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPlotCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts, info))

	return cmd
}
