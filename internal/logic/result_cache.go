package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionKey  = "chess:matches:version"
	cachePrefix = "chess:cache"
)

type resultCache struct {
	redis RedisClient
	ttl   time.Duration
}

// NewResultCache returns a ResultCache storing JSON blobs in Redis for ttl.
func NewResultCache(rdb RedisClient, ttl time.Duration) ResultCache {
	return &resultCache{redis: rdb, ttl: ttl}
}

func cacheKey(version int64, key string) string {
	return fmt.Sprintf("%s:v%d:%s", cachePrefix, version, key)
}

func (c *resultCache) Version(ctx context.Context) (int64, error) {
	v, err := c.redis.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *resultCache) BumpVersion(ctx context.Context) (int64, error) {
	return c.redis.Incr(ctx, versionKey).Result()
}

func (c *resultCache) Get(ctx context.Context, version int64, key string, dst any) (bool, error) {
	data, err := c.redis.Get(ctx, cacheKey(version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *resultCache) Put(ctx context.Context, version int64, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.redis.Set(ctx, cacheKey(version, key), data, c.ttl).Err()
}
