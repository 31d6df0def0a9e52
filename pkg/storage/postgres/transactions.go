package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, wallet_id, kind, amount, scheduled_for, status, created_at, updated_at`

func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	return getTransaction(ctx, s.db, txID, false)
}

func (s *Store) GetTask(ctx context.Context, txID string) (*models.DeferredTask, error) {
	var task models.DeferredTask
	var status string
	err := s.db.QueryRow(ctx,
		`SELECT transaction_id, handle, status, attempts, updated_at FROM deferred_tasks WHERE transaction_id = $1`, txID,
	).Scan(&task.TransactionId, &task.Handle, &status, &task.Attempts, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	task.Status = models.TaskStatus(status)
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

func (s *Store) ListTransactionsByWallet(ctx context.Context, walletID string) ([]models.Transaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}

func (s *Store) RecordDeposit(ctx context.Context, deposit *models.Transaction) (*models.Wallet, error) {
	if deposit.Kind != models.DEPOSIT || !deposit.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: deposit %s must be recorded in a terminal status", models.ErrInvalidStateTransition, deposit.Id)
	}

	var wallet *models.Wallet
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockWallet(ctx, tx, deposit.WalletId); err != nil {
			return err
		}
		if err := insertTransaction(ctx, tx, deposit); err != nil {
			return err
		}
		if deposit.Status == models.SUCCESS {
			if _, err := tx.Exec(ctx,
				`UPDATE wallets SET balance = balance + $1, version = version + 1 WHERE id = $2`,
				deposit.Amount, deposit.WalletId); err != nil {
				return fmt.Errorf("failed to credit wallet: %w", err)
			}
			if err := insertLedgerEntry(ctx, tx, deposit, 0, deposit.Amount, fmt.Sprintf("Deposit %s", deposit.Id)); err != nil {
				return err
			}
		}
		var err error
		wallet, err = getWallet(ctx, tx, deposit.WalletId)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *Store) CreateWithdrawal(ctx context.Context, withdrawal *models.Transaction) (*models.Transaction, error) {
	stored := *withdrawal
	stored.Status = models.PENDING

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockWallet(ctx, tx, stored.WalletId); err != nil {
			return err
		}
		wallet, err := getWallet(ctx, tx, stored.WalletId)
		if err != nil {
			return err
		}
		if wallet.Available() < stored.Amount {
			return storage.ErrInsufficientFunds
		}
		if err := insertTransaction(ctx, tx, &stored); err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO deferred_tasks (transaction_id, handle, status, attempts, updated_at) VALUES ($1, '', $2, 1, $3)`,
			stored.Id, string(models.TaskPending), stored.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) AttachTaskHandle(ctx context.Context, txID, handle string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE deferred_tasks SET handle = $1, updated_at = $2 WHERE transaction_id = $3`,
		handle, time.Now().UTC(), txID)
	if err != nil {
		return fmt.Errorf("failed to attach task handle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	return nil
}

// CancelWithdrawal holds the transaction row lock while the task is revoked, so an executor
// trying to settle blocks until the cancel commits and then finds the withdrawal CANCELED.
func (s *Store) CancelWithdrawal(ctx context.Context, txID string, revoke storage.RevokeFunc) (*models.Transaction, error) {
	var canceled *models.Transaction
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		current, err := getTransaction(ctx, tx, txID, true)
		if err != nil {
			return err
		}
		if !current.IsPendingWithdrawal() {
			return storage.ErrNotCancelable
		}

		if revoke != nil {
			task, err := s.taskInTx(ctx, tx, txID)
			switch {
			case err == nil:
				revoke(ctx, task)
			case !errors.Is(err, storage.ErrTaskNotFound):
				return err
			}
		}

		if err := finalize(ctx, tx, current, models.CANCELED); err != nil {
			return err
		}
		canceled = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canceled, nil
}

func (s *Store) taskInTx(ctx context.Context, tx pgx.Tx, txID string) (*models.DeferredTask, error) {
	var task models.DeferredTask
	var status string
	err := tx.QueryRow(ctx,
		`SELECT transaction_id, handle, status, attempts, updated_at FROM deferred_tasks WHERE transaction_id = $1`, txID,
	).Scan(&task.TransactionId, &task.Handle, &status, &task.Attempts, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	task.Status = models.TaskStatus(status)
	return &task, nil
}

func getTransaction(ctx context.Context, q querier, txID string, forUpdate bool) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	t, err := scanTransaction(q.QueryRow(ctx, query, txID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrTransactionNotFound, txID)
	}
	return t, err
}

func insertTransaction(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.Id, t.WalletId, string(t.Kind), t.Amount, t.ScheduledFor, string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "transactions_pkey") {
			return fmt.Errorf("transaction with ID %s already exists", t.Id)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// finalize moves a locked pending withdrawal to a terminal status and mirrors it on the task.
// The reservation is released implicitly because it is derived from PENDING rows.
func finalize(ctx context.Context, tx pgx.Tx, t *models.Transaction, status models.TransactionStatus) error {
	if err := t.TransitionTo(status); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()

	if _, err := tx.Exec(ctx, `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), t.UpdatedAt, t.Id); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE deferred_tasks SET status = $1, updated_at = $2 WHERE transaction_id = $3`,
		string(models.TaskStatusFor(status)), t.UpdatedAt, t.Id); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, t *models.Transaction, debit, credit int64, description string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_entries (entry_id, transaction_id, wallet_id, debit, credit, description, timestamp)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), t.Id, t.WalletId, debit, credit, description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	var kind, status string
	if err := row.Scan(&t.Id, &t.WalletId, &kind, &t.Amount, &t.ScheduledFor, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	t.Kind = models.TransactionKind(kind)
	t.Status = models.TransactionStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.ScheduledFor != nil {
		due := t.ScheduledFor.UTC()
		t.ScheduledFor = &due
	}
	return &t, nil
}
