package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/damap/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the extraction cache",
	}
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheFilesCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func openCache() (*cache.Cache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.Open(cfg.Cache.Path)
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how much the cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path:         %s\n", store.Path())
			fmt.Fprintf(out, "results:      %d\n", stats.Results)
			fmt.Fprintf(out, "declarations: %d\n", stats.Declarations)
			fmt.Fprintf(out, "files:        %d\n", stats.Files)
			return nil
		},
	}
}

func newCacheFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the files whose extraction is cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.FileEntries()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.12s\t%s\n", e.Path, e.Hash, e.ScannedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove everything from the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCache()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Clear()
		},
	}
}
