package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"c2cs/pkg/converter"
	"c2cs/pkg/logging"
)

type rootOptions struct {
	verbose bool
	logJSON bool
	noColor bool
}

func (o *rootOptions) logger(cmd *cobra.Command) (*zap.SugaredLogger, error) {
	return logging.New(logging.Options{
		Verbose: o.verbose,
		JSON:    o.logJSON,
		NoColor: o.noColor,
		Output:  cmd.ErrOrStderr(),
	})
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "c2cs",
		Short:         "Convert C sources into unsafe C#",
		Long:          "c2cs translates a project of C source files into C# that keeps C's memory model through unsafe code.",
		Version:       converter.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
				pterm.DisableColor()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	pf.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newConvertCmd(opts),
		newWatchCmd(opts),
		newASTCmd(),
		newTokensCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, color.YellowString("hint:"), hint)
		}
		os.Exit(1)
	}
}
