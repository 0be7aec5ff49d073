// Package cache provides an optional redis-backed cache for affordability
// results. Identical requests hit the same key, so repeated calculator
// submissions skip the search entirely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
)

// ResultCache caches affordability results. Implementations must be safe
// for concurrent use.
type ResultCache interface {
	Get(ctx context.Context, key string) (*model.AffordabilityResult, bool)
	Set(ctx context.Context, key string, result *model.AffordabilityResult) error
	Close() error
}

// Key derives a stable cache key from the affordability inputs.
func Key(annualIncome, monthlyDebt, availableFunds float64, militaryService bool) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%.2f|%.2f|%.2f|%t",
		annualIncome, monthlyDebt, availableFunds, militaryService)))
	return "affordability:" + hex.EncodeToString(sum[:16])
}

// New returns a redis-backed cache, or a no-op cache when no redis address
// is configured.
func New(cfg config.CacheConfig) ResultCache {
	if cfg.RedisAddr == "" {
		return noopCache{}
	}
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
		ttl:    ttl,
	}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string) (*model.AffordabilityResult, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result model.AffordabilityResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		zap.L().Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (c *redisCache) Set(ctx context.Context, key string, result *model.AffordabilityResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "cache: marshal result")
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// noopCache is used when caching is disabled.
type noopCache struct{}

func (noopCache) Get(context.Context, string) (*model.AffordabilityResult, bool) { return nil, false }

func (noopCache) Set(context.Context, string, *model.AffordabilityResult) error { return nil }

func (noopCache) Close() error { return nil }
