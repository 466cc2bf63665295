package invoices

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "invoices:list:version"

// Cache memoises invoice listings in Redis behind a version key. Every
// successful write bumps the version, so a stale listing is never
// served after a mutation. With no Redis client the cache degrades to
// calling the loader directly.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the listing cache. A nil client is allowed.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedListing struct {
	Invoices []Invoice `json:"invoices"`
	Total    int       `json:"total"`
}

// version returns the current cache version, initialising when missing.
func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// FetchList loads a cached listing for the given filters or populates
// it using the loader. Redis failures fall through to the loader so a
// degraded cache never takes the listing page down.
func (c *Cache) FetchList(ctx context.Context, filters Filters, loader func(context.Context) ([]Invoice, int, error)) ([]Invoice, int, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	ver, err := c.version(ctx)
	if err != nil {
		return loader(ctx)
	}
	key := fmt.Sprintf("invoices:list:%s:%d:%d:v%d", filters.Search, filters.Page, filters.Limit, ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedListing
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached.Invoices, cached.Total, nil
		}
	}

	invoices, total, err := loader(ctx)
	if err != nil {
		return nil, 0, err
	}

	raw, err := json.Marshal(cachedListing{Invoices: invoices, Total: total})
	if err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	return invoices, total, nil
}

// Invalidate bumps the version key, orphaning every cached listing.
// Called strictly after a successful write, never before.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
