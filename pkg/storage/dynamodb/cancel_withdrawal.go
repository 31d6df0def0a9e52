package dynamodb

import (
	"context"
	"errors"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

// CancelWithdrawal revokes the deferred task and then cancels the withdrawal.
// If an executor finalized the transaction in between, the cancel is refused.
func (s *Store) CancelWithdrawal(ctx context.Context, txID string, revoke storage.RevokeFunc) (*models.Transaction, error) {
	tx, err := s.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !tx.IsPendingWithdrawal() {
		return nil, storage.ErrNotCancelable
	}

	if revoke != nil {
		task, err := s.GetTask(ctx, txID)
		switch {
		case err == nil:
			revoke(ctx, task)
		case !errors.Is(err, storage.ErrTaskNotFound):
			return nil, err
		}
	}

	if err := s.release(ctx, tx, models.CANCELED); err != nil {
		if errors.Is(err, storage.ErrTransactionNotPending) {
			return nil, storage.ErrNotCancelable
		}
		return nil, err
	}

	if err := tx.TransitionTo(models.CANCELED); err != nil {
		return nil, err
	}
	return tx, nil
}
