package storage

import (
	"context"

	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// WalletStore defines the interface for managing wallets.
// Wallets are returned with Reserved set to the sum of their pending withdrawals.
type WalletStore interface {
	// GetWallet retrieves a wallet by its ID.
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)

	// CreateWallet creates a new wallet. Each owner may hold only one wallet.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)

	// ListWallets retrieves all wallets from the storage.
	ListWallets(ctx context.Context) ([]models.Wallet, error)
}
