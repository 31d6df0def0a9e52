// Package withdrawals schedules, executes, cancels and reconciles deferred withdrawals.
package withdrawals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrScheduleInPast is returned when a withdrawal is requested for an instant that is not in the future.
var ErrScheduleInPast = errors.New("scheduled time must be in the future")

// ScheduleStore is the storage used to open a withdrawal.
type ScheduleStore interface {
	CreateWithdrawal(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	AttachTaskHandle(ctx context.Context, txID, handle string) error
	FailWithdrawal(ctx context.Context, txID string) error
}

// Service opens withdrawals and registers them with the scheduler.
type Service struct {
	store     ScheduleStore
	scheduler scheduler.Scheduler
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new Service.
func NewService(store ScheduleStore, sched scheduler.Scheduler, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		scheduler: sched,
		logger:    logger,
		now:       time.Now,
	}
}

// Schedule reserves amount on the wallet and defers the withdrawal until dueAt.
// The reservation is released again when the job cannot be scheduled or its handle
// cannot be recorded.
func (s *Service) Schedule(ctx context.Context, walletID string, amount int64, dueAt time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	now := s.now().UTC()
	due := dueAt.UTC()
	if !due.After(now) {
		return nil, ErrScheduleInPast
	}

	ctx, span := tracing.Tracer.Start(ctx, "withdrawals.Schedule", trace.WithAttributes(
		attribute.String("wallet.id", walletID),
		attribute.Int64("amount", amount),
	))
	defer span.End()

	tx, err := s.store.CreateWithdrawal(ctx, &models.Transaction{
		Id:           uuid.New().String(),
		WalletId:     walletID,
		Kind:         models.WITHDRAWAL,
		Amount:       amount,
		ScheduledFor: &due,
		Status:       models.PENDING,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, tracing.RecordError(span, err)
	}

	handle, err := s.scheduler.Schedule(ctx, tx.Id, due)
	if err != nil {
		s.release(ctx, tx.Id)
		return nil, tracing.RecordError(span, fmt.Errorf("failed to schedule withdrawal: %w", err))
	}

	if err := s.store.AttachTaskHandle(ctx, tx.Id, handle); err != nil {
		// Without a recorded handle the job could not be revoked on cancel or reschedule.
		if _, revokeErr := s.scheduler.Revoke(ctx, handle, false); revokeErr != nil {
			s.logger.ErrorContext(ctx, "failed to revoke unrecorded job", "transaction_id", tx.Id, "handle", handle, "error", revokeErr)
		}
		s.release(ctx, tx.Id)
		return nil, tracing.RecordError(span, fmt.Errorf("failed to record task handle: %w", err))
	}

	s.logger.InfoContext(ctx, "withdrawal scheduled", "transaction_id", tx.Id, "wallet_id", walletID, "amount", amount, "due_at", due)
	span.SetStatus(codes.Ok, "")
	return tx, nil
}

// release fails a withdrawal that never got a usable job. A job that escaped revocation
// finds the transaction finalized and does nothing.
func (s *Service) release(ctx context.Context, txID string) {
	if err := s.store.FailWithdrawal(ctx, txID); err != nil {
		s.logger.ErrorContext(ctx, "failed to release withdrawal after scheduling error", "transaction_id", txID, "error", err)
	}
}
