package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/damap/codebase"
	"github.com/dhamidi/damap/format"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-extract mapper declarations whenever sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc, err := format.New(cfg.Output.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cb, err := codebase.FromConfig(root, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			stderr := cmd.ErrOrStderr()
			w := codebase.NewFileWatcher(cb, func(changed, removed []string) {
				for _, path := range removed {
					fmt.Fprintf(stderr, "removed %s\n", path)
				}
				for _, path := range changed {
					results, err := cb.ExtractFile(context.Background(), path)
					if err != nil {
						fmt.Fprintf(stderr, "%s: %v\n", path, err)
						continue
					}
					if _, err := report(stderr, enc, results); err != nil {
						fmt.Fprintf(stderr, "%v\n", err)
					}
				}
			})
			w.SetInterval(interval)
			w.Start()
			defer w.Stop()

			fmt.Fprintf(stderr, "watching %s, press Ctrl-C to stop\n", root)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "how often to look for changes")

	return cmd
}
