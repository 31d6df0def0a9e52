package withdrawals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/alerts"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultStallThreshold is how long past its due time a pending withdrawal may sit before
	// the reconciler treats it as stalled.
	DefaultStallThreshold = 5 * time.Minute
	// DefaultMaxAttempts is the number of scheduling attempts after which a stalled
	// withdrawal is failed instead of rescheduled.
	DefaultMaxAttempts = 3
)

// ReconcileStore is the storage used to resolve stalled withdrawals.
type ReconcileStore interface {
	ListStalledWithdrawals(ctx context.Context, dueBefore time.Time) ([]models.Transaction, error)
	GetTask(ctx context.Context, txID string) (*models.DeferredTask, error)
	RescheduleTask(ctx context.Context, txID, handle string) error
	FailWithdrawal(ctx context.Context, txID string) error
}

// ReconcilerConfig tunes the reconciler.
type ReconcilerConfig struct {
	// StallThreshold is how long past its due time a pending withdrawal may stay unresolved.
	StallThreshold time.Duration
	// MaxAttempts caps how many times a withdrawal is handed to the scheduler.
	MaxAttempts int
}

// Report summarizes one reconciliation pass.
type Report struct {
	Rescheduled int
	Failed      int
	Overdue     int
}

// Reconciler resolves pending withdrawals that outlived their due time, either because the
// gateway never answered or because the scheduler never ran them.
type Reconciler struct {
	store     ReconcileStore
	scheduler scheduler.Scheduler
	alerter   alerts.Alerter
	cfg       ReconcilerConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewReconciler creates a new Reconciler.
func NewReconciler(store ReconcileStore, sched scheduler.Scheduler, alerter alerts.Alerter, cfg ReconcilerConfig, logger *slog.Logger) *Reconciler {
	if cfg.StallThreshold <= 0 {
		cfg.StallThreshold = DefaultStallThreshold
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Reconciler{
		store:     store,
		scheduler: sched,
		alerter:   alerter,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run performs one pass over the stalled withdrawals. Failures on single withdrawals do not
// stop the pass and are returned joined.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	ctx, span := tracing.Tracer.Start(ctx, "withdrawals.Reconcile")
	defer span.End()

	var report Report
	now := r.now().UTC()
	stalled, err := r.store.ListStalledWithdrawals(ctx, now.Add(-r.cfg.StallThreshold))
	if err != nil {
		return report, tracing.RecordError(span, fmt.Errorf("failed to list stalled withdrawals: %w", err))
	}

	var errs []error
	for i := range stalled {
		if err := r.reconcile(ctx, &stalled[i], now, &report); err != nil {
			errs = append(errs, err)
		}
	}

	span.SetAttributes(
		attribute.Int("reconcile.rescheduled", report.Rescheduled),
		attribute.Int("reconcile.failed", report.Failed),
		attribute.Int("reconcile.overdue", report.Overdue),
	)
	if len(stalled) > 0 {
		r.logger.InfoContext(ctx, "reconciliation pass finished", "stalled", len(stalled), "rescheduled", report.Rescheduled, "failed", report.Failed, "overdue", report.Overdue)
	}
	if err := errors.Join(errs...); err != nil {
		return report, tracing.RecordError(span, err)
	}
	span.SetStatus(codes.Ok, "")
	return report, nil
}

func (r *Reconciler) reconcile(ctx context.Context, tx *models.Transaction, now time.Time, report *Report) error {
	task, err := r.store.GetTask(ctx, tx.Id)
	if err != nil {
		return fmt.Errorf("failed to load task of %s: %w", tx.Id, err)
	}

	if task.Status == models.TaskPending && task.Handle != "" {
		report.Overdue++
		r.raise(ctx, alerts.ExecutionOverdue, tx, task.Attempts, fmt.Sprintf("due at %s", tx.ScheduledFor))
		return nil
	}

	if task.Attempts >= r.cfg.MaxAttempts {
		err := r.store.FailWithdrawal(ctx, tx.Id)
		if errors.Is(err, storage.ErrTransactionNotPending) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to fail withdrawal %s: %w", tx.Id, err)
		}
		report.Failed++
		r.logger.WarnContext(ctx, "withdrawal failed after exhausting attempts", "transaction_id", tx.Id, "attempts", task.Attempts)
		r.raise(ctx, alerts.RetriesExhausted, tx, task.Attempts, "")
		return nil
	}

	if task.Handle != "" {
		if _, err := r.scheduler.Revoke(ctx, task.Handle, false); err != nil {
			r.logger.WarnContext(ctx, "failed to revoke previous task", "transaction_id", tx.Id, "handle", task.Handle, "error", err)
		}
	}

	handle, err := r.scheduler.Schedule(ctx, tx.Id, now)
	if err != nil {
		return fmt.Errorf("failed to reschedule withdrawal %s: %w", tx.Id, err)
	}
	if err := r.store.RescheduleTask(ctx, tx.Id, handle); err != nil {
		if _, revokeErr := r.scheduler.Revoke(ctx, handle, false); revokeErr != nil {
			r.logger.WarnContext(ctx, "failed to revoke orphaned task", "transaction_id", tx.Id, "handle", handle, "error", revokeErr)
		}
		if errors.Is(err, storage.ErrTransactionNotPending) {
			return nil
		}
		return fmt.Errorf("failed to record rescheduled task of %s: %w", tx.Id, err)
	}

	report.Rescheduled++
	r.logger.InfoContext(ctx, "withdrawal rescheduled", "transaction_id", tx.Id, "handle", handle, "attempt", task.Attempts+1)
	return nil
}

func (r *Reconciler) raise(ctx context.Context, reason alerts.Reason, tx *models.Transaction, attempts int, detail string) {
	err := r.alerter.Alert(ctx, alerts.Alert{
		Reason:        reason,
		TransactionID: tx.Id,
		WalletID:      tx.WalletId,
		Attempts:      attempts,
		Detail:        detail,
		RaisedAt:      r.now().UTC(),
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to raise alert", "reason", reason, "transaction_id", tx.Id, "error", err)
	}
}
