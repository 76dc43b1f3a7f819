package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spidyleet/internal/platform/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "spidyleet:"

// RedisCache shares cached values between server instances.
type RedisCache struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

// ConnectRedis dials addr and pings it before returning.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	log := logger.NewNamedLogger("cache")
	log.Infow("connected to redis", "addr", addr, "db", db)
	return &RedisCache{rdb: rdb, logger: log}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis.Get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a value we cannot read is as good as a miss
		c.logger.Warnw("dropping unreadable cache entry", "key", key, "error", err)
		c.rdb.Del(ctx, keyPrefix+key)
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis.Set %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis.Delete %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	c.logger.Info("redis connection closed")
	return c.rdb.Close()
}
