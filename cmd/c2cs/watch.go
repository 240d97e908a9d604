package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"c2cs/pkg/converter"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		flags    projectFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Convert the project again whenever a source or header changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := root.logger(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			p, err := flags.load(cmd, args)
			if err != nil {
				return err
			}
			c, err := openCache(p)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			log.Infof("Watching project %s, press Ctrl+C to stop", p.ProjectName)
			return converter.Watch(ctx, p, converter.WatchOptions{
				Options:  converter.Options{Logger: log, Cache: c},
				Debounce: debounce,
				OnResult: func(res *converter.Result, written []string, err error) {
					if res != nil {
						_ = printResult(out, res)
					}
					for _, name := range written {
						fmt.Fprintf(out, "  wrote %s\n", name)
					}
				},
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", converter.DefaultDebounce, "quiet period before converting again")
	return cmd
}
