package cache_test

import (
	"context"
	"testing"
	"time"

	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	var miss []model.Problem
	found, err := c.Get(ctx, "problems", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	in := []model.Problem{{ID: "p1", Title: "Two Sum", Tags: []string{"array"}}}
	require.NoError(t, c.Set(ctx, "problems", in, time.Minute))
	assert.True(t, mr.Exists("spidyleet:problems"))

	var out []model.Problem
	found, err = c.Get(ctx, "problems", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)

	require.NoError(t, c.Delete(ctx, "problems"))
	found, err = c.Get(ctx, "problems", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "tags", []string{"array", "dp"}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("spidyleet:tags"))

	mr.FastForward(2 * time.Minute)

	var tags []string
	found, err := c.Get(ctx, "tags", &tags)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_UnreadableEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, mr.Set("spidyleet:problems", "not json"))

	var out []model.Problem
	found, err := c.Get(ctx, "problems", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("spidyleet:problems"))
}

func TestConnectRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := cache.ConnectRedis(ctx, addr, "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}
