package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"asset-catalog/internal/metrics"
	"asset-catalog/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "catalog:equipment_model:"

// CachedSource is a read-through redis cache in front of another Source.
// Redis errors degrade to a direct lookup.
type CachedSource struct {
	next Source
	rdb  redis.UniversalClient
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedSource(next Source, rdb redis.UniversalClient, ttl time.Duration, log *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedSource{next: next, rdb: rdb, ttl: ttl, log: log.Named("catalog_cache")}
}

func cacheKey(id uint) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, id)
}

func (c *CachedSource) Lookup(ctx context.Context, id uint) (*models.EquipmentModel, error) {
	key := cacheKey(id)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var eq models.EquipmentModel
		if jerr := json.Unmarshal(raw, &eq); jerr == nil {
			metrics.CatalogCacheLookupsTotal.WithLabelValues("hit").Inc()
			return &eq, nil
		}
		c.log.Warn("dropping undecodable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		metrics.CatalogCacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	metrics.CatalogCacheLookupsTotal.WithLabelValues("miss").Inc()

	eq, err := c.next.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(eq); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return eq, nil
}

// Invalidate drops cached entries so the next lookup sees catalog corrections.
func (c *CachedSource) Invalidate(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cacheKey(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidateAll drops every cached equipment model and returns how many keys
// were removed.
func (c *CachedSource) InvalidateAll(ctx context.Context) (int, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, cacheKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan catalog cache: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to drop catalog cache: %w", err)
	}
	return len(keys), nil
}
