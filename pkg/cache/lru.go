package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize is the number of wallets kept by an LRUCache when no size is configured.
const DefaultLRUSize = 10_000

type entry struct {
	balance int64
	version int64
}

// LRUCache implements BalanceCache in process memory for single-instance deployments.
// Entries only leave the cache on eviction or invalidation.
type LRUCache struct {
	// mu makes the version check and the write in Set one step.
	mu      sync.Mutex
	entries *lru.Cache[string, entry]
}

// NewLRUCache creates an LRUCache holding at most size wallets.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

// Make sure we conform to the interface
var _ BalanceCache = (*LRUCache)(nil)

func (c *LRUCache) Get(_ context.Context, walletID string) (int64, bool, error) {
	e, ok := c.entries.Get(Key(walletID))
	return e.balance, ok, nil
}

func (c *LRUCache) Set(_ context.Context, walletID string, balance, version int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(walletID)
	if current, ok := c.entries.Peek(key); ok && current.version >= version {
		return nil
	}
	c.entries.Add(key, entry{balance: balance, version: version})
	return nil
}

func (c *LRUCache) Invalidate(_ context.Context, walletID string) error {
	c.entries.Remove(Key(walletID))
	return nil
}
