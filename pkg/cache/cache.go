// Package cache holds the read-optimized copy of wallet balances.
// The authoritative balance always lives in storage; a cache entry is written after every
// committed balance mutation and repopulated from storage on a miss.
package cache

import "context"

// BalanceCache caches wallet balances keyed by wallet ID. Entries never expire on their own.
type BalanceCache interface {
	// Get returns the cached balance and whether an entry was present.
	Get(ctx context.Context, walletID string) (int64, bool, error)
	// Set stores the balance observed at the given wallet version. An entry already holding
	// the same or a newer version is kept, so writes racing each other settle on the latest.
	Set(ctx context.Context, walletID string, balance, version int64) error
	// Invalidate drops the entry for the wallet.
	Invalidate(ctx context.Context, walletID string) error
}

const keyPrefix = "wallet:balance:"

// Key returns the cache key used for a wallet's balance.
func Key(walletID string) string {
	return keyPrefix + walletID
}
