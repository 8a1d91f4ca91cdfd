package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url")
	assert.Error(t, err)
}

func TestRedisCache_Ping(t *testing.T) {
	c, _ := newTestRedisCache(t)

	assert.NoError(t, c.Ping(context.Background()))
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	value, err := c.Get(context.Background(), "bearer:panel")

	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Empty(t, value)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "bearer:panel", "token-1", 14*time.Minute))

	value, err := c.Get(ctx, "bearer:panel")
	require.NoError(t, err)
	assert.Equal(t, "token-1", value)

	stored, err := mr.Get("ingredient-panel:token:bearer:panel")
	require.NoError(t, err, "keys are namespaced")
	assert.Equal(t, "token-1", stored)
	assert.False(t, mr.Exists("bearer:panel"))
}

func TestRedisCache_Expiration(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "bearer:panel", "token-1", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("ingredient-panel:token:bearer:panel"))

	mr.FastForward(59 * time.Second)
	_, err := c.Get(ctx, "bearer:panel")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = c.Get(ctx, "bearer:panel")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "bearer:panel", "token-1", time.Minute))
	require.NoError(t, c.Delete(ctx, "bearer:panel"))

	_, err := c.Get(ctx, "bearer:panel")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, mr.Exists("ingredient-panel:token:bearer:panel"))

	assert.NoError(t, c.Delete(ctx, "bearer:panel"), "deleting a missing key")
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newTestRedisCache(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))
	_, err := c.Get(ctx, "bearer:panel")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss, "an outage is not a miss")
}
