package commands

import (
	"context"
	"testing"
	"time"

	"asset-catalog/internal/catalog"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCache(t *testing.T) (*catalog.CachedSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	for _, key := range []string{"catalog:equipment_model:1", "catalog:equipment_model:2", "catalog:equipment_model:3"} {
		require.NoError(t, mr.Set(key, "{}"))
	}
	require.NoError(t, mr.Set("session:abc", "keep"))
	return catalog.NewCachedSource(nil, rdb, time.Minute, zap.NewNop()), mr
}

func TestInvalidateCatalog_ListedIDs(t *testing.T) {
	cache, mr := newCache(t)

	n, err := invalidateCatalog(context.Background(), cache, []string{"1", "3"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists("catalog:equipment_model:1"))
	assert.True(t, mr.Exists("catalog:equipment_model:2"))
	assert.False(t, mr.Exists("catalog:equipment_model:3"))
}

func TestInvalidateCatalog_All(t *testing.T) {
	cache, mr := newCache(t)

	n, err := invalidateCatalog(context.Background(), cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, mr.Exists("catalog:equipment_model:2"))
	assert.True(t, mr.Exists("session:abc"), "only catalog keys are dropped")
}

func TestInvalidateCatalog_BadID(t *testing.T) {
	cache, mr := newCache(t)

	_, err := invalidateCatalog(context.Background(), cache, []string{"1", "x"})
	assert.Error(t, err)
	assert.True(t, mr.Exists("catalog:equipment_model:1"), "nothing is dropped on bad input")
}
