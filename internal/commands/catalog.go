package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"asset-catalog/internal/catalog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Equipment catalog maintenance",
}

var invalidateCmd = &cobra.Command{
	Use:   "invalidate [model-id...]",
	Short: "Drop cached equipment models",
	Long: `Drop cached equipment models so the next asset save reads the corrected
catalog entry instead of waiting for CATALOG_CACHE_TTL. Without ids every
cached model is dropped.`,
	RunE: runInvalidate,
}

func init() {
	catalogCmd.AddCommand(invalidateCmd)
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is not set, the equipment catalog is not cached")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	// Invalidation never reads through, so the cache needs no origin source.
	cache := catalog.NewCachedSource(nil, rdb, cfg.CatalogCacheTTL, log)
	n, err := invalidateCatalog(cmd.Context(), cache, args)
	if err != nil {
		return err
	}
	log.Info("invalidated equipment catalog cache", zap.Int("entries", n))
	return nil
}

// invalidateCatalog drops the listed model ids, or the whole cache when none
// are given, and returns the number of entries targeted.
func invalidateCatalog(ctx context.Context, cache *catalog.CachedSource, args []string) (int, error) {
	if len(args) == 0 {
		return cache.InvalidateAll(ctx)
	}
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil || id == 0 {
			return 0, fmt.Errorf("invalid equipment model id %q", arg)
		}
		ids = append(ids, uint(id))
	}
	if err := cache.Invalidate(ctx, ids...); err != nil {
		return 0, fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return len(ids), nil
}
