package cache

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strconv"
	"time"

	"smart-schedule/core/config"
	"smart-schedule/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the key/value store shared by the API and the worker.
type Cache interface {
	// Get decodes the JSON value at key into dest and reports whether it existed.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
	// Incr increments a fixed-window counter, starting the window on first use.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Close() error
}

type redisCache struct {
	rdb *redis.Client
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (Cache, error) {
	rdb := NewRedisClient(cfg)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("Cache:NewRedisCache:Ping", "addr", cfg.Addr, "error", err)
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	logger.Info("Cache:NewRedisCache:Connected", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{rdb: rdb}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if stdErrors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *redisCache) DelPrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Del(ctx, batch...)
}

func (c *redisCache) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = time.Minute.Milliseconds()
	}
	res, err := fixedWindowScript.Run(ctx, c.rdb, []string{key}, ms).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
