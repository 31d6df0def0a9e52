package withdrawals

import (
	"context"
	"log/slog"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CancelStore is the storage used to cancel a withdrawal.
type CancelStore interface {
	CancelWithdrawal(ctx context.Context, txID string, revoke storage.RevokeFunc) (*models.Transaction, error)
}

// Coordinator cancels pending withdrawals and revokes their scheduled execution.
type Coordinator struct {
	store     CancelStore
	scheduler scheduler.Scheduler
	logger    *slog.Logger
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(store CancelStore, sched scheduler.Scheduler, logger *slog.Logger) *Coordinator {
	return &Coordinator{store: store, scheduler: sched, logger: logger}
}

// Cancel finalizes a pending withdrawal as CANCELED. Revocation is best effort: the
// cancellation is recorded whatever the scheduler answers, and an execution that still
// fires finds the transaction finalized.
func (c *Coordinator) Cancel(ctx context.Context, txID string) (*models.Transaction, error) {
	ctx, span := tracing.Tracer.Start(ctx, "withdrawals.Cancel", trace.WithAttributes(attribute.String("transaction.id", txID)))
	defer span.End()

	tx, err := c.store.CancelWithdrawal(ctx, txID, c.revoke)
	if err != nil {
		return nil, tracing.RecordError(span, err)
	}

	c.logger.InfoContext(ctx, "withdrawal canceled", "transaction_id", tx.Id, "wallet_id", tx.WalletId)
	span.SetStatus(codes.Ok, "")
	return tx, nil
}

func (c *Coordinator) revoke(ctx context.Context, task *models.DeferredTask) {
	if task.Handle == "" {
		c.logger.WarnContext(ctx, "withdrawal has no task handle to revoke", "transaction_id", task.TransactionId)
		return
	}

	outcome, err := c.scheduler.Revoke(ctx, task.Handle, true)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to revoke task, canceling anyway", "transaction_id", task.TransactionId, "handle", task.Handle, "error", err)
		return
	}

	switch outcome {
	case scheduler.RevokeRevoked:
		c.logger.InfoContext(ctx, "task revoked", "transaction_id", task.TransactionId, "handle", task.Handle)
	case scheduler.RevokeAlreadyRunning:
		c.logger.WarnContext(ctx, "task already running, interrupt requested", "transaction_id", task.TransactionId, "handle", task.Handle)
	default:
		c.logger.WarnContext(ctx, "task state unknown to scheduler", "transaction_id", task.TransactionId, "handle", task.Handle, "outcome", outcome.String())
	}
}
