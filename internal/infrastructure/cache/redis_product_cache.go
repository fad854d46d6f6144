package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// RedisProductCache implements stocksync.ProductCache on Redis. It remembers
// the storefront product ID and the last pushed status per (site, SKU), so a
// pass can decide without a remote lookup when nothing changed.
//
// All operations are best-effort: Redis failures are logged and degrade to a
// cache miss, never to a pass failure.
type RedisProductCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// TTL bounds how long a cached product identity is trusted
	TTL time.Duration
}

// NewRedisProductCache creates a Redis-backed product cache.
func NewRedisProductCache(cfg RedisConfig, logger *zap.Logger) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisProductCache{
		client:    client,
		keyPrefix: "stocksync:product:",
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// NewRedisProductCacheWithClient creates a cache sharing an existing client.
// Useful for testing or when the client is shared across components.
func NewRedisProductCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisProductCache{
		client:    client,
		keyPrefix: "stocksync:product:",
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *RedisProductCache) key(siteID, sku string) string {
	return c.keyPrefix + siteID + ":" + sku
}

// Get returns the cached entry, or ok=false on a miss or Redis failure.
func (c *RedisProductCache) Get(ctx context.Context, siteID string, sku string) (stocksync.CachedProduct, bool) {
	raw, err := c.client.Get(ctx, c.key(siteID, sku)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("product cache get failed", zap.String("site_id", siteID), zap.String("sku", sku), zap.Error(err))
		}
		return stocksync.CachedProduct{}, false
	}

	var entry stocksync.CachedProduct
	if err := json.Unmarshal(raw, &entry); err != nil {
		return stocksync.CachedProduct{}, false
	}
	return entry, true
}

// Put stores or replaces the entry.
func (c *RedisProductCache) Put(ctx context.Context, siteID string, sku string, product stocksync.CachedProduct) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(siteID, sku), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache put failed", zap.String("site_id", siteID), zap.String("sku", sku), zap.Error(err))
	}
}

// Invalidate drops the entry.
func (c *RedisProductCache) Invalidate(ctx context.Context, siteID string, sku string) {
	if err := c.client.Del(ctx, c.key(siteID, sku)).Err(); err != nil {
		c.logger.Warn("product cache invalidate failed", zap.String("site_id", siteID), zap.String("sku", sku), zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

// Ensure RedisProductCache implements the ProductCache port
var _ stocksync.ProductCache = (*RedisProductCache)(nil)
