package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/handlers/respond"
	"github.com/chris/scheduled-withdrawals/pkg/mapping"
	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// TransactionReader reads transactions and their deferred tasks.
type TransactionReader interface {
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)
	GetTask(ctx context.Context, txID string) (*models.DeferredTask, error)
	ListTransactions(ctx context.Context, walletID string) ([]models.Transaction, error)
}

// WithdrawalScheduler creates deferred withdrawals.
type WithdrawalScheduler interface {
	Schedule(ctx context.Context, walletID string, amount int64, dueAt time.Time) (*models.Transaction, error)
}

// Canceler cancels pending withdrawals.
type Canceler interface {
	Cancel(ctx context.Context, txID string) (*models.Transaction, error)
}

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Reader    TransactionReader
	Scheduler WithdrawalScheduler
	Canceler  Canceler
	Logger    *slog.Logger
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(reader TransactionReader, scheduler WithdrawalScheduler, canceler Canceler, logger *slog.Logger) *TransactionsHandler {
	return &TransactionsHandler{Reader: reader, Scheduler: scheduler, Canceler: canceler, Logger: logger}
}

// ScheduleWithdrawal handles the logic for scheduling a new withdrawal.
func (h *TransactionsHandler) ScheduleWithdrawal(w http.ResponseWriter, r *http.Request, walletId string) {
	var newWithdrawal api.NewWithdrawal
	if err := json.NewDecoder(r.Body).Decode(&newWithdrawal); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	createdTx, err := h.Scheduler.Schedule(r.Context(), walletId, newWithdrawal.Amount, newWithdrawal.ScheduledFor)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "schedule withdrawal")
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiTransaction(createdTx))
}

// GetTransactionById handles the logic for retrieving a transaction by its ID.
func (h *TransactionsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request, transactionId string) {
	domainTx, err := h.Reader.GetTransaction(r.Context(), transactionId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve transaction")
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(domainTx))
}

// GetTransactionTask returns the deferred task of a withdrawal.
func (h *TransactionsHandler) GetTransactionTask(w http.ResponseWriter, r *http.Request, transactionId string) {
	task, err := h.Reader.GetTask(r.Context(), transactionId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve task")
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTask(task))
}

// CancelTransactionById handles the logic for cancelling a pending withdrawal.
func (h *TransactionsHandler) CancelTransactionById(w http.ResponseWriter, r *http.Request, transactionId string) {
	canceled, err := h.Canceler.Cancel(r.Context(), transactionId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "cancel transaction")
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(canceled))
}

// ListWalletTransactions handles the logic for retrieving all transactions of a wallet.
func (h *TransactionsHandler) ListWalletTransactions(w http.ResponseWriter, r *http.Request, walletId string) {
	domainTxs, err := h.Reader.ListTransactions(r.Context(), walletId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve transactions")
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(domainTxs))
}
