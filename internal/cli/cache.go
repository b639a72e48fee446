package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visualtopo/pkg/cache"
)

// artifactTTL is how long converted PNG/PDF and Graphviz output is reused.
const artifactTTL = 7 * 24 * time.Hour

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printInfo("Cleared %d cached artifacts", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})
	return cmd
}

// cacheDir returns the cache directory using XDG standard (~/.cache/visualtopo/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// openCache returns the artifact cache, or a no-op cache when disabled or
// when the directory cannot be created.
func openCache(ctx context.Context, disabled bool) cache.Cache {
	if disabled {
		return cache.NullCache{}
	}
	dir, err := cacheDir()
	if err != nil {
		loggerFromContext(ctx).Debug("artifact cache disabled", "error", err)
		return cache.NullCache{}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		loggerFromContext(ctx).Debug("artifact cache disabled", "error", err)
		return cache.NullCache{}
	}
	return fc
}

// cached returns the entry for key or computes, stores and returns it.
// Cache failures only cost the reuse.
func cached(ctx context.Context, c cache.Cache, key string, compute func() ([]byte, error)) ([]byte, error) {
	logger := loggerFromContext(ctx)
	if data, ok, err := c.Get(ctx, key); err != nil {
		logger.Debug("cache read failed", "error", err)
	} else if ok {
		logger.Debug("cache hit", "key", key)
		return data, nil
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, artifactTTL); err != nil {
		logger.Debug("cache write failed", "error", err)
	}
	return data, nil
}
