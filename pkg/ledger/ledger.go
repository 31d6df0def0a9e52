// Package ledger owns wallet balances: the authoritative value in storage and the cached copy.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/cache"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidAmount is returned for deposit and withdrawal amounts that are not positive.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

// Store is the slice of storage the ledger works with.
type Store interface {
	storage.ApiStore
	SettleWithdrawal(ctx context.Context, txID string) (*models.Wallet, error)
}

// DepositResult is the outcome of a deposit that reached the payment service.
type DepositResult struct {
	Transaction *models.Transaction
	Balance     int64
}

// Ledger applies balance mutations and serves balance reads.
type Ledger struct {
	store   Store
	cache   cache.BalanceCache
	gateway gateway.Client
	logger  *slog.Logger
}

// New creates a new Ledger.
func New(store Store, balances cache.BalanceCache, gw gateway.Client, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:   store,
		cache:   balances,
		gateway: gw,
		logger:  logger,
	}
}

// CreateWallet opens a wallet for an owner. Each owner may hold a single wallet.
func (l *Ledger) CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}
	wallet, err := l.store.CreateWallet(ctx, &models.Wallet{
		Id:        uuid.New().String(),
		OwnerId:   ownerID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	l.writeThrough(ctx, wallet)
	return wallet, nil
}

// GetWallet returns the wallet as stored, including its reserved amount.
func (l *Ledger) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	return l.store.GetWallet(ctx, walletID)
}

// ListWallets returns every wallet.
func (l *Ledger) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return l.store.ListWallets(ctx)
}

// Balance returns the wallet balance, serving it from the cache when possible.
func (l *Ledger) Balance(ctx context.Context, walletID string) (int64, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ledger.Balance", trace.WithAttributes(attribute.String("wallet.id", walletID)))
	defer span.End()

	balance, ok, err := l.cache.Get(ctx, walletID)
	if err != nil {
		l.logger.WarnContext(ctx, "balance cache read failed", "wallet_id", walletID, "error", err)
	}
	if ok {
		span.SetStatus(codes.Ok, "cache hit")
		return balance, nil
	}

	wallet, err := l.store.GetWallet(ctx, walletID)
	if err != nil {
		return 0, tracing.RecordError(span, err)
	}
	l.writeThrough(ctx, wallet)
	span.SetStatus(codes.Ok, "cache miss")
	return wallet.Balance, nil
}

// AvailableBalance returns the authoritative balance minus every pending withdrawal.
func (l *Ledger) AvailableBalance(ctx context.Context, walletID string) (int64, error) {
	wallet, err := l.store.GetWallet(ctx, walletID)
	if err != nil {
		return 0, err
	}
	return wallet.Available(), nil
}

// Deposit moves money into the wallet through the payment service. A refused deposit is
// recorded as FAILED and leaves the balance untouched. When the payment service cannot be
// reached nothing is recorded and the gateway error is returned.
func (l *Ledger) Deposit(ctx context.Context, walletID string, amount int64) (*DepositResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	ctx, span := tracing.Tracer.Start(ctx, "ledger.Deposit", trace.WithAttributes(
		attribute.String("wallet.id", walletID),
		attribute.Int64("amount", amount),
	))
	defer span.End()

	if _, err := l.store.GetWallet(ctx, walletID); err != nil {
		return nil, tracing.RecordError(span, err)
	}

	status := models.FAILED
	resp, err := l.gateway.Transfer(ctx, gateway.Request{WalletID: walletID, Amount: amount, Type: gateway.Deposit})
	var httpErr *gateway.HTTPError
	switch {
	case err == nil && resp.Succeeded():
		status = models.SUCCESS
	case err == nil, errors.As(err, &httpErr):
		l.logger.WarnContext(ctx, "deposit refused by payment service", "wallet_id", walletID, "amount", amount, "error", err)
	default:
		return nil, tracing.RecordError(span, fmt.Errorf("failed to deposit: %w", err))
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		Id:        uuid.New().String(),
		WalletId:  walletID,
		Kind:      models.DEPOSIT,
		Amount:    amount,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	wallet, err := l.store.RecordDeposit(ctx, tx)
	if err != nil {
		return nil, tracing.RecordError(span, fmt.Errorf("failed to record deposit: %w", err))
	}
	if status == models.SUCCESS {
		l.writeThrough(ctx, wallet)
	}

	l.logger.InfoContext(ctx, "deposit recorded", "transaction_id", tx.Id, "wallet_id", walletID, "amount", amount, "status", status)
	span.SetStatus(codes.Ok, "")
	return &DepositResult{Transaction: tx, Balance: wallet.Balance}, nil
}

// ApplyWithdrawalSettlement debits a pending withdrawal from its wallet and marks it SUCCESS.
// storage.ErrTransactionNotPending is returned when the withdrawal was finalized elsewhere.
func (l *Ledger) ApplyWithdrawalSettlement(ctx context.Context, txID string) (*models.Wallet, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ledger.ApplyWithdrawalSettlement", trace.WithAttributes(attribute.String("transaction.id", txID)))
	defer span.End()

	wallet, err := l.store.SettleWithdrawal(ctx, txID)
	if err != nil {
		return nil, tracing.RecordError(span, err)
	}
	l.writeThrough(ctx, wallet)
	span.SetStatus(codes.Ok, "")
	return wallet, nil
}

// GetTransaction returns a deposit or withdrawal by ID.
func (l *Ledger) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	return l.store.GetTransaction(ctx, txID)
}

// GetTask returns the deferred task tracking a withdrawal.
func (l *Ledger) GetTask(ctx context.Context, txID string) (*models.DeferredTask, error) {
	return l.store.GetTask(ctx, txID)
}

// ListTransactions returns a wallet's transactions, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, walletID string) ([]models.Transaction, error) {
	if _, err := l.store.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}
	return l.store.ListTransactionsByWallet(ctx, walletID)
}

// ListLedgerEntries returns up to limit audit entries of a wallet, newest first.
func (l *Ledger) ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error) {
	if _, err := l.store.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}
	return l.store.ListLedgerEntries(ctx, walletID, limit)
}

// writeThrough refreshes the cached balance with the wallet as committed. The cache keeps
// whichever version is newest, so concurrent commits may write in any order. The entry is
// dropped when the write fails so the next read goes to storage.
func (l *Ledger) writeThrough(ctx context.Context, wallet *models.Wallet) {
	if err := l.cache.Set(ctx, wallet.Id, wallet.Balance, wallet.Version); err != nil {
		l.logger.WarnContext(ctx, "balance cache write failed", "wallet_id", wallet.Id, "error", err)
		if err := l.cache.Invalidate(ctx, wallet.Id); err != nil {
			l.logger.ErrorContext(ctx, "balance cache invalidation failed", "wallet_id", wallet.Id, "error", err)
		}
	}
}
