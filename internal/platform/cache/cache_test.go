package cache_test

import (
	"context"
	"testing"
	"time"

	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(4, time.Minute)

	var miss []model.Problem
	found, err := c.Get(ctx, "problems", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	in := []model.Problem{{ID: "p1", Title: "Two Sum", Tags: []string{"array"}}}
	require.NoError(t, c.Set(ctx, "problems", in, time.Minute))

	var out []model.Problem
	found, err = c.Get(ctx, "problems", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)

	// stored encoded, so the caller's copy is independent
	out[0].Title = "changed"
	var again []model.Problem
	_, _ = c.Get(ctx, "problems", &again)
	assert.Equal(t, "Two Sum", again[0].Title)
}

func TestLRUCache_Evicts(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(2, 0)

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Set(ctx, "c", 3, 0))
	assert.Equal(t, 2, c.Len())

	var v int
	found, _ := c.Get(ctx, "a", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "c", &v)
	assert.True(t, found)
	assert.Equal(t, 3, v)
}

func TestLRUCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(2, 20*time.Millisecond)
	require.NoError(t, c.Set(ctx, "a", "x", 0))

	assert.Eventually(t, func() bool {
		var v string
		found, _ := c.Get(ctx, "a", &v)
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestLRUCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewLRU(2, time.Minute)
	require.NoError(t, c.Set(ctx, "a", "x", 0))
	require.NoError(t, c.Delete(ctx, "a"))

	var v string
	found, _ := c.Get(ctx, "a", &v)
	assert.False(t, found)
}

func TestLRUCache_SatisfiesCache(t *testing.T) {
	var _ cache.Cache = cache.NewLRU(1, 0)
	var _ cache.Cache = (*cache.RedisCache)(nil)
}
