package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/jackc/pgx/v5"
)

func (s *Store) SettleWithdrawal(ctx context.Context, txID string) (*models.Wallet, error) {
	var wallet *models.Wallet
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		current, err := lockPendingWithdrawal(ctx, tx, txID)
		if err != nil {
			return err
		}
		if err := lockWallet(ctx, tx, current.WalletId); err != nil {
			return err
		}
		if err := finalize(ctx, tx, current, models.SUCCESS); err != nil {
			return err
		}
		// balance >= 0 is enforced by a CHECK constraint.
		if _, err := tx.Exec(ctx,
			`UPDATE wallets SET balance = balance - $1, version = version + 1 WHERE id = $2`,
			current.Amount, current.WalletId); err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}
		if err := insertLedgerEntry(ctx, tx, current, current.Amount, 0, fmt.Sprintf("Settlement for withdrawal %s", current.Id)); err != nil {
			return err
		}
		wallet, err = getWallet(ctx, tx, current.WalletId)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *Store) FailWithdrawal(ctx context.Context, txID string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		current, err := lockPendingWithdrawal(ctx, tx, txID)
		if err != nil {
			return err
		}
		return finalize(ctx, tx, current, models.FAILED)
	})
}

func (s *Store) MarkTaskFailed(ctx context.Context, txID string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockPendingWithdrawal(ctx, tx, txID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE deferred_tasks SET status = $1, updated_at = $2 WHERE transaction_id = $3`,
			string(models.TaskFailed), time.Now().UTC(), txID)
		if err != nil {
			return fmt.Errorf("failed to mark task failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
		}
		return nil
	})
}

func lockPendingWithdrawal(ctx context.Context, tx pgx.Tx, txID string) (*models.Transaction, error) {
	current, err := getTransaction(ctx, tx, txID, true)
	if err != nil {
		return nil, err
	}
	if !current.IsPendingWithdrawal() {
		return nil, storage.ErrTransactionNotPending
	}
	return current, nil
}
