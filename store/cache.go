package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"smartcart/models"
)

// redisClient is the subset of *redis.Client the cache needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedCatalog is a read-through Redis cache in front of a Catalog.
// Cache failures are logged and the underlying catalog is used instead.
type CachedCatalog struct {
	Catalog
	rdb    redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCatalog(catalog Catalog, rdb redisClient, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{Catalog: catalog, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedCatalog) List(ctx context.Context) ([]models.Product, error) {
	return c.cached(ctx, "products_list", func() ([]models.Product, error) {
		return c.Catalog.List(ctx)
	})
}

func (c *CachedCatalog) Search(ctx context.Context, query string) ([]models.Product, error) {
	key := "products_search_" + strings.ToLower(strings.TrimSpace(query))
	return c.cached(ctx, key, func() ([]models.Product, error) {
		return c.Catalog.Search(ctx, query)
	})
}

func (c *CachedCatalog) cached(ctx context.Context, key string, load func() ([]models.Product, error)) ([]models.Product, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var products []models.Product
		if jsonErr := json.Unmarshal([]byte(raw), &products); jsonErr == nil {
			return products, nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	products, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := c.rdb.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return products, nil
}

// ConnectRedis parses url and pings the server. It returns nil when the
// cache is unreachable so callers can run without it.
func ConnectRedis(ctx context.Context, url string, logger *zap.Logger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("invalid REDIS_URL, running without cache", zap.Error(err))
		return nil
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis connection failed, running without cache", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	logger.Info("redis connected", zap.String("addr", opt.Addr))
	return rdb
}
