package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/logging"
)

const diffPrefix = "commitaudit:diff:"

// ConnectRedis parses url and returns a client. The connection is lazy.
func ConnectRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return redis.NewClient(opt), nil
}

// DiffCache keeps commit diffs in redis. A diff never changes for a given
// hash, so entries only expire to bound memory. Errors degrade to misses.
type DiffCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewDiffCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *DiffCache {
	return &DiffCache{rdb: rdb, ttl: ttl, log: logging.OrNop(log)}
}

func (c *DiffCache) Get(ctx context.Context, key string) (string, bool) {
	v, err := c.rdb.Get(ctx, diffPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("diff cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return v, true
}

func (c *DiffCache) Put(ctx context.Context, key, diff string) {
	if err := c.rdb.Set(ctx, diffPrefix+key, diff, c.ttl).Err(); err != nil {
		c.log.Debug("diff cache put failed", zap.String("key", key), zap.Error(err))
	}
}
