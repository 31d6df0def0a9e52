package storage

import (
	"context"

	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// SettlementStore defines the privileged interface used by the task executor to finalize withdrawals.
// Every method only acts while the transaction is still PENDING and returns
// ErrTransactionNotPending otherwise.
type SettlementStore interface {
	// SettleWithdrawal debits the wallet, marks the transaction SUCCESS and the task SUCCESS
	// in one atomic unit, returning the updated wallet.
	SettleWithdrawal(ctx context.Context, txID string) (*models.Wallet, error)

	// FailWithdrawal marks the transaction and its task FAILED, releasing the reservation.
	FailWithdrawal(ctx context.Context, txID string) error

	// MarkTaskFailed marks only the task FAILED, leaving the transaction pending.
	MarkTaskFailed(ctx context.Context, txID string) error
}
