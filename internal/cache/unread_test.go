package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agro-order-service/internal/model"
)

func newTestCache(t *testing.T) (*RedisUnreadCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisUnreadCache(client, 15*time.Second), mr
}

func TestRedisUnreadCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, "u1", &model.UnreadCounts{Orders: 2, Messages: 1, Total: 3})
	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, 2, got.Orders)
	assert.Equal(t, 3, got.Total)
}

func TestRedisUnreadCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "u1", &model.UnreadCounts{Total: 1})
	mr.FastForward(16 * time.Second)

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestRedisUnreadCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "buyer", &model.UnreadCounts{Total: 1})
	c.Set(ctx, "seller", &model.UnreadCounts{Total: 2})
	c.Set(ctx, "other", &model.UnreadCounts{Total: 3})

	c.Invalidate(ctx, "buyer", "seller", "")

	_, ok := c.Get(ctx, "buyer")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "seller")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "other")
	assert.True(t, ok)
}
