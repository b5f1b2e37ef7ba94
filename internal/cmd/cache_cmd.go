package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/remsfal/remsfal-frontend-sub001/internal/cache"
)

type cacheEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the local cache of project names",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached data",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}
			cache.ClearAll(dir)
			return printOutput(cmd, map[string]any{"cleared": true, "dir": dir}, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "Cache cleared: %s\n", dir)
				return err
			})
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory and its files",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}

			// The directory might not exist yet.
			entries := []cacheEntry{}
			if dirEntries, err := os.ReadDir(dir); err == nil {
				for _, e := range dirEntries {
					if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
						continue
					}
					info, err := e.Info()
					if err != nil {
						continue
					}
					entries = append(entries, cacheEntry{Name: e.Name(), Size: info.Size()})
				}
			}

			return printOutput(cmd, map[string]any{"dir": dir, "files": entries}, func(out io.Writer) error {
				_, _ = fmt.Fprintln(out, dir)
				for _, e := range entries {
					_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", e.Name, e.Size)
				}
				return nil
			})
		}),
	}
}
