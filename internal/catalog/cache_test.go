package catalog

import (
	"context"
	"testing"
	"time"

	"asset-catalog/internal/database/dbtest"
	"asset-catalog/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSource struct {
	next  Source
	calls int
}

func (c *countingSource) Lookup(ctx context.Context, id uint) (*models.EquipmentModel, error) {
	c.calls++
	return c.next.Lookup(ctx, id)
}

func TestCachedSource_ReadThrough(t *testing.T) {
	db := dbtest.Open(t)
	eq := models.EquipmentModel{Vendor: "Dell", Model: "PowerEdge R750", IsRackmount: true, RackUnits: units(2)}
	require.NoError(t, db.Create(&eq).Error)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	origin := &countingSource{next: NewDBSource(db)}
	cache := NewCachedSource(origin, rdb, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := cache.Lookup(ctx, eq.ID)
	require.NoError(t, err)
	second, err := cache.Lookup(ctx, eq.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, origin.calls)
	assert.Equal(t, first.Model, second.Model)
	assert.Equal(t, 2, *second.RackUnits)
	assert.True(t, mr.Exists(cacheKey(eq.ID)))

	mr.FastForward(2 * time.Minute)
	_, err = cache.Lookup(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.calls, "expired entries are reloaded")

	require.NoError(t, cache.Invalidate(ctx, eq.ID))
	assert.False(t, mr.Exists(cacheKey(eq.ID)))
}

func TestCachedSource_MissingModelNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cache := NewCachedSource(mapSource{}, rdb, time.Minute, zap.NewNop())
	_, err := cache.Lookup(context.Background(), 5)
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.False(t, mr.Exists(cacheKey(5)))
}

func TestCachedSource_InvalidateAll(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	src := mapSource{
		1: {ID: 1, Vendor: "Ubiquiti", Model: "U6-Pro"},
		2: {ID: 2, Vendor: "Cisco", Model: "C9300-48P"},
	}
	cache := NewCachedSource(src, rdb, time.Minute, zap.NewNop())
	ctx := context.Background()
	for _, id := range []uint{1, 2} {
		_, err := cache.Lookup(ctx, id)
		require.NoError(t, err)
	}
	require.NoError(t, mr.Set("session:abc", "keep"))

	n, err := cache.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists(cacheKey(1)))
	assert.False(t, mr.Exists(cacheKey(2)))
	assert.True(t, mr.Exists("session:abc"))

	n, err = cache.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCachedSource_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	src := mapSource{1: {ID: 1, Vendor: "Ubiquiti", Model: "U6-Pro"}}
	cache := NewCachedSource(src, rdb, time.Minute, zap.NewNop())

	eq, err := cache.Lookup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "U6-Pro", eq.Model)
}

func TestDBSource_List(t *testing.T) {
	db := dbtest.Open(t)
	for _, eq := range []models.EquipmentModel{
		{Vendor: "Dell", Model: "R750"},
		{Vendor: "Cisco", Model: "C9300"},
		{Vendor: "Dell", Model: "R650"},
	} {
		require.NoError(t, db.Create(&eq).Error)
	}

	src := NewDBSource(db)
	all, err := src.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Cisco", all[0].Vendor)

	dell, err := src.List(context.Background(), "Dell")
	require.NoError(t, err)
	require.Len(t, dell, 2)
	assert.Equal(t, "R650", dell[0].Model)
}
