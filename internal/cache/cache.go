package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps computed dashboard payloads in Redis so repeated
// renders of the same window do not recompute. A nil *SummaryCache is
// valid and disables caching.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *SummaryCache {
	if client == nil {
		return nil
	}
	return &SummaryCache{client: client, ttl: ttl}
}

// Key builds the cache key from the request coordinates.
func Key(parts ...string) string {
	return "insights:" + strings.Join(parts, "|")
}

// Get loads a cached payload into dst, reporting whether it was found.
func (c *SummaryCache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set stores a payload under the key with the cache TTL.
func (c *SummaryCache) Set(ctx context.Context, key string, v any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache payload: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cache key %s: %w", key, err)
	}
	return nil
}

// InvalidateCustomer drops all cached payloads for a customer, used
// after a fresh ingest.
func (c *SummaryCache) InvalidateCustomer(ctx context.Context, customer string) error {
	if c == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, Key(customer)+"|*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("del cache key %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}
