package storage

import (
	"context"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// ReconciliationStore defines the operations used to resolve withdrawals whose execution stalled.
type ReconciliationStore interface {
	// ListStalledWithdrawals returns pending withdrawals that were due before the cutoff.
	ListStalledWithdrawals(ctx context.Context, dueBefore time.Time) ([]models.Transaction, error)

	// RescheduleTask replaces the task handle, resets its status to PENDING and counts the attempt.
	RescheduleTask(ctx context.Context, txID, handle string) error
}
