package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"agro-order-service/internal/logger"
	"agro-order-service/internal/model"
)

// RedisUnreadCache guarda los contadores de no leídos por usuario con TTL.
// Un error de Redis se trata como miss: los contadores se recalculan.
type RedisUnreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUnreadCache(client *redis.Client, ttl time.Duration) *RedisUnreadCache {
	return &RedisUnreadCache{client: client, ttl: ttl}
}

func unreadKey(userID string) string {
	return fmt.Sprintf("unread:%s", userID)
}

func (c *RedisUnreadCache) Get(ctx context.Context, userID string) (*model.UnreadCounts, bool) {
	data, err := c.client.Get(ctx, unreadKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("redis get falló", zap.String("userId", userID), zap.Error(err))
		}
		return nil, false
	}
	var out model.UnreadCounts
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *RedisUnreadCache) Set(ctx context.Context, userID string, counts *model.UnreadCounts) {
	payload, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, unreadKey(userID), payload, c.ttl).Err(); err != nil {
		logger.Warn("redis set falló", zap.String("userId", userID), zap.Error(err))
	}
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, userIDs ...string) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			keys = append(keys, unreadKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("redis del falló", zap.Strings("keys", keys), zap.Error(err))
	}
}

// NewRedisClient crea el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
