package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// setScript writes balance ARGV[1] at version ARGV[2] unless the hash at KEYS[1] already
// holds the same or a newer version. Returns 1 when the entry was written.
var setScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
if current and tonumber(current) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('HSET', KEYS[1], 'balance', ARGV[1], 'version', ARGV[2])
return 1
`)

// RedisCache implements BalanceCache on top of Redis hashes holding a balance and the wallet
// version it was read at.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Make sure we conform to the interface
var _ BalanceCache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, walletID string) (int64, bool, error) {
	balance, err := c.client.HGet(ctx, Key(walletID), "balance").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached balance: %w", err)
	}
	return balance, true, nil
}

func (c *RedisCache) Set(ctx context.Context, walletID string, balance, version int64) error {
	// No expiration: the entry lives until a newer version or an invalidation replaces it.
	if err := setScript.Run(ctx, c.client, []string{Key(walletID)}, balance, version).Err(); err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, walletID string) error {
	if err := c.client.Del(ctx, Key(walletID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached balance: %w", err)
	}
	return nil
}
