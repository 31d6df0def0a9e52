package storage

import (
	"context"

	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// RevokeFunc is invoked by CancelWithdrawal while the transaction is held, before it is finalized.
type RevokeFunc func(ctx context.Context, task *models.DeferredTask)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// GetTask retrieves the deferred task that belongs to a withdrawal.
	GetTask(ctx context.Context, txID string) (*models.DeferredTask, error)

	// ListTransactionsByWallet retrieves all transactions for a wallet, newest first.
	ListTransactionsByWallet(ctx context.Context, walletID string) ([]models.Transaction, error)
}

// TransactionManager defines the interface for creating and managing transactions before settlement.
// This is suitable for components like the main API service.
type TransactionManager interface {
	// RecordDeposit stores a deposit created in a terminal status. A SUCCESS deposit increments
	// the wallet balance in the same atomic unit. The updated wallet is returned.
	RecordDeposit(ctx context.Context, tx *models.Transaction) (*models.Wallet, error)

	// CreateWithdrawal checks the available balance under a wallet lock and stores the pending
	// withdrawal together with its pending deferred task. Returns ErrInsufficientFunds when the
	// available balance cannot cover the amount.
	CreateWithdrawal(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)

	// AttachTaskHandle records the scheduler handle on the withdrawal's deferred task.
	AttachTaskHandle(ctx context.Context, txID, handle string) error

	// CancelWithdrawal holds the transaction, verifies it is pending, calls revoke and then marks
	// the task failed and the transaction canceled.
	CancelWithdrawal(ctx context.Context, txID string, revoke RevokeFunc) (*models.Transaction, error)
}

// TransactionStore combines the reader and manager interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionManager
}
