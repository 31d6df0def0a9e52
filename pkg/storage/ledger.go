package storage

import (
	"context"

	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// LedgerReader defines the interface for reading ledger data.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent ledger entries of a wallet.
	ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error)
}
