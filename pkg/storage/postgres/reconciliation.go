package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/jackc/pgx/v5"
)

func (s *Store) ListStalledWithdrawals(ctx context.Context, dueBefore time.Time) ([]models.Transaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
         WHERE status = 'PENDING' AND kind = 'WITHDRAWAL' AND scheduled_for < $1
         ORDER BY scheduled_for`, dueBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stalled withdrawals: %w", err)
	}
	return collectTransactions(rows)
}

func (s *Store) RescheduleTask(ctx context.Context, txID, handle string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockPendingWithdrawal(ctx, tx, txID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE deferred_tasks SET handle = $1, status = $2, attempts = attempts + 1, updated_at = $3
             WHERE transaction_id = $4`,
			handle, string(models.TaskPending), time.Now().UTC(), txID)
		if err != nil {
			return fmt.Errorf("failed to reschedule task: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
		}
		return nil
	})
}
