package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	orderKeyPrefix  = "order:"
	defaultCacheTTL = 5 * time.Minute
)

// RedisOrderCache implements OrderCache using Redis. Orders are cached as
// their stored JSON, so a cache hit returns the same frozen summary as the
// database.
type RedisOrderCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisOrderCache creates a new Redis-based order cache.
func NewRedisOrderCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisOrderCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("order-cache"),
	}
}

// Get retrieves an order from cache. A miss returns nil, nil.
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss", zap.String("order_id", id))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}

	var entry cachedOrder
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}

	c.logger.Debug("Cache hit", zap.String("order_id", id))
	return entry.toModel(), nil
}

// Set stores an order in cache.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(newCachedOrder(order))
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, orderKeyPrefix+order.ID, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", zap.String("order_id", order.ID), zap.Error(err))
		return err
	}

	c.logger.Debug("Order cached",
		zap.String("order_id", order.ID),
		zap.Duration("ttl", c.ttl),
	)
	return nil
}

// Delete removes an order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, orderKeyPrefix+id).Err(); err != nil {
		c.logger.Error("Cache delete error", zap.String("order_id", id), zap.Error(err))
		return err
	}
	return nil
}

// cachedOrder keeps the fields the public JSON hides, so an idempotent
// replay served from cache still sees its request hash.
type cachedOrder struct {
	*models.Order
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	RequestHash    string `json:"request_hash,omitempty"`
}

func newCachedOrder(o *models.Order) cachedOrder {
	return cachedOrder{Order: o, IdempotencyKey: o.IdempotencyKey, RequestHash: o.RequestHash}
}

func (c cachedOrder) toModel() *models.Order {
	if c.Order == nil {
		return nil
	}
	c.Order.IdempotencyKey = c.IdempotencyKey
	c.Order.RequestHash = c.RequestHash
	return c.Order
}
