package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogKeyPattern = "products_*"

// CatalogCache caches catalog reads in redis. A nil client turns every call
// into a miss, so the catalog is read from the database.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func ProductListKey() string {
	return "products_list_all"
}

func ProductKey(id int) string {
	return fmt.Sprintf("products_item_%d", id)
}

func (c *CatalogCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get decodes the cached value of key into dst and reports whether it was found.
func (c *CatalogCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *CatalogCache) Set(ctx context.Context, key string, v any) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached catalog entry and returns how many were removed.
func (c *CatalogCache) Invalidate(ctx context.Context) (int, error) {
	if !c.Enabled() {
		return 0, nil
	}
	removed := 0
	iter := c.client.Scan(ctx, 0, catalogKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan catalog: %w", err)
	}
	return removed, nil
}
