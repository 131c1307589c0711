package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smilesdraw/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and drawings",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and drawing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := cache.Open(ctx, c.cfg.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clr, ok := ch.(cache.Clearer)
			if !ok {
				printWarning("The %s cache cannot be cleared", backendName(c.cfg.Cache))
				return nil
			}
			if err := clr.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared the %s cache", backendName(c.cfg.Cache))
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cfg.Cache.Dir)
			return nil
		},
	}
}

func backendName(cfg cache.Config) string {
	if cfg.Backend == "" {
		return cache.BackendFile
	}
	return cfg.Backend
}
