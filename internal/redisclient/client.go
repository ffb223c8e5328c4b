package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dropflow-admin/internal/models"

	"github.com/go-redis/redis/v8"
)

const catalogKey = "catalog:all"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// CacheCatalog stores the full product list with a TTL. Used by the
// postgres backend to keep the dashboard list view cheap.
func (c *Client) CacheCatalog(ctx context.Context, products []models.Product, ttl time.Duration) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.rdb.Set(ctx, catalogKey, data, ttl).Err()
}

// GetCachedCatalog retrieves the cached product list. Returns
// (nil, nil) on a cache miss.
func (c *Client) GetCachedCatalog(ctx context.Context) ([]models.Product, error) {
	data, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return products, nil
}

// InvalidateCatalog drops the cached product list after any write.
func (c *Client) InvalidateCatalog(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

// AcquireLock acquires an advisory lock for a bulk operation. The UI
// convention is that overlapping identical requests are not issued; the
// lock makes the convention explicit on the server side.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases an advisory lock.
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}

// MarkAlerted records a low-stock alert for a product. Returns false if
// an alert was already raised within the dedup window.
func (c *Client) MarkAlerted(ctx context.Context, productID int64, window time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("alert:lowstock:%d", productID), "1", window).Result()
}
