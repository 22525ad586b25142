package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/models"
)

// SearchCache is a read-through cache for item search results. Cache
// failures never fail the request: callers fall back to the database.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewSearchCache(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *SearchCache {
	return &SearchCache{client: client, ttl: ttl, logger: logger}
}

func searchKey(text string, offset, limit int) string {
	return fmt.Sprintf("search:%s:%d:%d", strings.ToLower(text), offset, limit)
}

// Get returns (nil, false) on a miss or any cache error.
func (c *SearchCache) Get(ctx context.Context, text string, offset, limit int) ([]models.Item, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, searchKey(text, offset, limit)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Debug().Err(err).Msg("search cache read failed")
		return nil, false
	}

	var items []models.Item
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		c.logger.Debug().Err(err).Msg("search cache entry corrupt")
		return nil, false
	}
	return items, true
}

func (c *SearchCache) Set(ctx context.Context, text string, offset, limit int, items []models.Item) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, searchKey(text, offset, limit), data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("search cache write failed")
	}
}

// Invalidate drops all cached search pages. Called after item writes so
// stale availability is bounded by the write, not only the TTL.
func (c *SearchCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "search:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug().Err(err).Msg("search cache invalidate failed")
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug().Err(err).Msg("search cache scan failed")
	}
}
