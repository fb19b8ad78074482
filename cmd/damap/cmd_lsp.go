package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/damap/cache"
	"github.com/dhamidi/damap/codebase"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server reporting mapper diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			var opts []codebase.Option
			if cfg.Cache.Enabled {
				store, err := cache.Open(cfg.Cache.Path)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				defer store.Close()
				opts = append(opts, codebase.WithCache(store))
			}
			server := codebase.NewLSPServer(version, cfg, opts...)
			return server.RunStdio()
		},
	}
}
