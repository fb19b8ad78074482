package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dhamidi/damap/cache"
	"github.com/dhamidi/damap/codebase"
	"github.com/dhamidi/damap/config"
	"github.com/dhamidi/damap/format"
	"github.com/dhamidi/damap/ui"
)

func newExtractCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "extract <path>...",
		Short: "Extract the mapper declarations of Java files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(func(cfg *config.Config) {
				applyExtractFlags(cmd.Flags(), cfg)
			})
			if err != nil {
				return err
			}

			enc, err := format.New(cfg.Output.Format, cmd.OutOrStdout())
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

			failed := 0
			for _, root := range args {
				n, err := extractRoot(cmd, root, cfg, enc, quiet, opts)
				if err != nil {
					return err
				}
				failed += n
			}
			if failed > 0 {
				return fmt.Errorf("%d declarations could not be extracted", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "json", "output format (json, yaml, line)")
	cmd.Flags().Bool("all", false, "extract every class and enum, not only @Mapper classes")
	cmd.Flags().IntP("workers", "j", 0, "files processed at once (default: one per CPU)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the extraction cache")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show progress")

	return cmd
}

// applyExtractFlags overrides the configuration with the flags given on
// the command line.
func applyExtractFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("all") {
		cfg.Extract.All, _ = flags.GetBool("all")
	}
	if flags.Changed("workers") {
		cfg.Extract.Workers, _ = flags.GetInt("workers")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
}

// extractRoot encodes the declarations found below root and reports the
// failed ones on stderr. It returns how many failed.
func extractRoot(cmd *cobra.Command, root string, cfg *config.Config, enc format.Encoder, quiet bool, opts []codebase.Option) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if info.IsDir() && !quiet {
		opts = append(opts[:len(opts):len(opts)], codebase.WithProgress(ui.NewProgress(cmd.ErrOrStderr())))
	}

	cb, err := codebase.FromConfig(root, cfg, opts...)
	if err != nil {
		return 0, err
	}
	if err := cb.ScanAll(cmd.Context()); err != nil {
		return 0, fmt.Errorf("scan %s: %w", root, err)
	}
	results, err := cb.ExtractAll(cmd.Context())
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", root, err)
	}

	return report(cmd.ErrOrStderr(), enc, results)
}

func report(stderr io.Writer, enc format.Encoder, results []codebase.Result) (int, error) {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			fmt.Fprintf(stderr, "%s:%s: %v\n", r.Path, r.Span.Start, r.Err)
			failed++
			continue
		}
		if err := enc.Encode(r.Declaration); err != nil {
			return failed, fmt.Errorf("encode %s: %w", r.Name, err)
		}
	}
	return failed, nil
}
