package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache implements ports.IdempotencyCache using Redis. It holds
// the JSON of committed ledger entries keyed by reference id, so verbatim
// client retries can be answered without opening a database unit of work.
type IdempotencyCache struct {
	client *goredis.Client
	prefix string
}

// NewIdempotencyCache creates a new Redis-backed idempotency cache.
func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{
		client: client,
		prefix: "ledger:ref:",
	}
}

// Get retrieves a cached committed entry by reference id.
// Returns nil, nil if the key does not exist.
func (c *IdempotencyCache) Get(ctx context.Context, referenceID string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+referenceID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis idempotency get: %w", err)
	}
	return val, nil
}

// Set stores a committed entry in the idempotency cache with TTL.
func (c *IdempotencyCache) Set(ctx context.Context, referenceID string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+referenceID, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis idempotency set: %w", err)
	}
	return nil
}
