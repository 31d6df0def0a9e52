package withdrawals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chris/scheduled-withdrawals/pkg/alerts"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotWithdrawal is returned when the executor is handed a transaction of another kind.
var ErrNotWithdrawal = errors.New("transaction is not a withdrawal")

// ErrRevoked is the cancellation cause of an execution interrupted because its withdrawal was
// canceled. Any other cancellation leaves the outcome of an in-flight transfer unknown.
var ErrRevoked = errors.New("withdrawal execution revoked")

// settleAttempts bounds how often a debit is retried after the gateway accepted the withdrawal.
const settleAttempts = 5

// ExecutorStore is the storage used while executing a withdrawal.
type ExecutorStore interface {
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)
	FailWithdrawal(ctx context.Context, txID string) error
	MarkTaskFailed(ctx context.Context, txID string) error
}

// Settler applies the debit of a withdrawal the gateway accepted.
type Settler interface {
	ApplyWithdrawalSettlement(ctx context.Context, txID string) (*models.Wallet, error)
}

// Executor runs a due withdrawal against the payment service and records the outcome.
// It is safe to invoke more than once for the same transaction.
type Executor struct {
	store   ExecutorStore
	settler Settler
	gateway gateway.Client
	alerter alerts.Alerter
	logger  *slog.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(store ExecutorStore, settler Settler, gw gateway.Client, alerter alerts.Alerter, logger *slog.Logger) *Executor {
	return &Executor{
		store:   store,
		settler: settler,
		gateway: gw,
		alerter: alerter,
		logger:  logger,
	}
}

// Execute performs the withdrawal. Finalized transactions are left alone. An error is only
// returned when the transaction could not be loaded or the outcome of the gateway call is
// unknown; in the latter case the task is marked failed and the transaction stays pending.
// Once the gateway has been called the outcome is recorded even if ctx is done, unless ctx was
// canceled with ErrRevoked, in which case the canceling side owns the transaction.
func (e *Executor) Execute(ctx context.Context, txID string) error {
	ctx, span := tracing.Tracer.Start(ctx, "withdrawals.Execute", trace.WithAttributes(attribute.String("transaction.id", txID)))
	defer span.End()

	tx, err := e.store.GetTransaction(ctx, txID)
	if err != nil {
		return tracing.RecordError(span, fmt.Errorf("failed to load withdrawal: %w", err))
	}
	if tx.Kind != models.WITHDRAWAL {
		return tracing.RecordError(span, fmt.Errorf("%w: %s", ErrNotWithdrawal, txID))
	}
	if tx.Status.IsTerminal() {
		e.logger.InfoContext(ctx, "withdrawal already finalized, skipping", "transaction_id", txID, "status", tx.Status)
		span.SetStatus(codes.Ok, "already finalized")
		return nil
	}

	resp, err := e.gateway.Transfer(ctx, gateway.Request{WalletID: tx.WalletId, Amount: tx.Amount, Type: gateway.Withdrawal})
	if err != nil {
		var httpErr *gateway.HTTPError
		if errors.As(err, &httpErr) {
			return e.fail(context.WithoutCancel(ctx), span, tx, err)
		}
		if errors.Is(context.Cause(ctx), ErrRevoked) {
			e.logger.WarnContext(ctx, "withdrawal execution interrupted", "transaction_id", txID, "error", err)
			return tracing.RecordError(span, fmt.Errorf("withdrawal %s interrupted: %w", txID, ErrRevoked))
		}
		return tracing.RecordError(span, e.markUnresolved(context.WithoutCancel(ctx), tx, err))
	}
	if !resp.Succeeded() {
		return e.fail(context.WithoutCancel(ctx), span, tx, fmt.Errorf("payment service reported status %d", resp.Status))
	}

	if err := e.settle(context.WithoutCancel(ctx), tx); err != nil {
		return tracing.RecordError(span, err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// settle debits the wallet. The gateway has already moved the money, so a storage failure is
// retried and finally escalated instead of being returned to the scheduler, which would run
// the withdrawal again.
func (e *Executor) settle(ctx context.Context, tx *models.Transaction) error {
	op := func() error {
		_, err := e.settler.ApplyWithdrawalSettlement(ctx, tx.Id)
		if errors.Is(err, storage.ErrTransactionNotPending) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), settleAttempts), ctx)

	err := backoff.Retry(op, policy)
	switch {
	case err == nil:
		e.logger.InfoContext(ctx, "withdrawal settled", "transaction_id", tx.Id, "wallet_id", tx.WalletId, "amount", tx.Amount)
		return nil
	case errors.Is(err, storage.ErrTransactionNotPending):
		e.logger.ErrorContext(ctx, "payment service accepted a withdrawal that was already finalized", "transaction_id", tx.Id, "wallet_id", tx.WalletId, "amount", tx.Amount)
		e.raise(ctx, alerts.SettlementConflict, tx, 0, "gateway accepted withdrawal after it was finalized")
		return nil
	default:
		e.logger.ErrorContext(ctx, "failed to settle accepted withdrawal", "transaction_id", tx.Id, "error", err)
		e.raise(ctx, alerts.SettlementFailed, tx, 0, err.Error())
		return nil
	}
}

func (e *Executor) fail(ctx context.Context, span trace.Span, tx *models.Transaction, cause error) error {
	err := e.store.FailWithdrawal(ctx, tx.Id)
	switch {
	case errors.Is(err, storage.ErrTransactionNotPending):
		e.logger.InfoContext(ctx, "withdrawal finalized concurrently, nothing to fail", "transaction_id", tx.Id)
		return nil
	case err != nil:
		return tracing.RecordError(span, fmt.Errorf("failed to mark withdrawal failed: %w", err))
	}

	e.logger.WarnContext(ctx, "withdrawal refused by payment service", "transaction_id", tx.Id, "wallet_id", tx.WalletId, "error", cause)
	span.SetStatus(codes.Ok, "refused")
	return nil
}

// markUnresolved records that the gateway never answered. The reservation is kept because the
// transfer may have happened.
func (e *Executor) markUnresolved(ctx context.Context, tx *models.Transaction, cause error) error {
	if err := e.store.MarkTaskFailed(ctx, tx.Id); err != nil && !errors.Is(err, storage.ErrTransactionNotPending) {
		e.logger.ErrorContext(ctx, "failed to mark task failed", "transaction_id", tx.Id, "error", err)
	}
	e.logger.ErrorContext(ctx, "payment service unreachable, withdrawal left pending", "transaction_id", tx.Id, "wallet_id", tx.WalletId, "error", cause)
	e.raise(ctx, alerts.GatewayUnreachable, tx, 0, cause.Error())
	return fmt.Errorf("failed to execute withdrawal %s: %w", tx.Id, cause)
}

func (e *Executor) raise(ctx context.Context, reason alerts.Reason, tx *models.Transaction, attempts int, detail string) {
	err := e.alerter.Alert(ctx, alerts.Alert{
		Reason:        reason,
		TransactionID: tx.Id,
		WalletID:      tx.WalletId,
		Attempts:      attempts,
		Detail:        detail,
		RaisedAt:      time.Now().UTC(),
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to raise alert", "reason", reason, "transaction_id", tx.Id, "error", err)
	}
}
