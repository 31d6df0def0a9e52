// Package memory provides an in-process implementation of the storage interfaces.
// A single mutex plays the role of the row locks a relational store would take, so every
// operation is serialized. It backs local development and the service-level tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/google/uuid"
)

// Store implements the Storage interface in memory.
type Store struct {
	mu           sync.Mutex
	wallets      map[string]*models.Wallet
	owners       map[string]string
	transactions map[string]*models.Transaction
	tasks        map[string]*models.DeferredTask
	entries      []models.LedgerEntry
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		wallets:      make(map[string]*models.Wallet),
		owners:       make(map[string]string),
		transactions: make(map[string]*models.Transaction),
		tasks:        make(map[string]*models.DeferredTask),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateWallet(_ context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[wallet.OwnerId]; ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletExists, wallet.OwnerId)
	}
	if _, ok := s.wallets[wallet.Id]; ok {
		return nil, fmt.Errorf("wallet with ID %s already exists", wallet.Id)
	}

	w := *wallet
	w.Reserved = 0
	s.wallets[w.Id] = &w
	s.owners[w.OwnerId] = w.Id
	return s.walletLocked(w.Id), nil
}

func (s *Store) GetWallet(_ context.Context, walletID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[walletID]; !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, walletID)
	}
	return s.walletLocked(walletID), nil
}

func (s *Store) ListWallets(_ context.Context) ([]models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets := make([]models.Wallet, 0, len(s.wallets))
	for id := range s.wallets {
		wallets = append(wallets, *s.walletLocked(id))
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].CreatedAt.After(wallets[j].CreatedAt)
	})
	return wallets, nil
}

func (s *Store) GetTransaction(_ context.Context, txID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrTransactionNotFound, txID)
	}
	out := *tx
	return &out, nil
}

func (s *Store) GetTask(_ context.Context, txID string) (*models.DeferredTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[txID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	out := *task
	return &out, nil
}

func (s *Store) ListTransactionsByWallet(_ context.Context, walletID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []models.Transaction
	for _, tx := range s.transactions {
		if tx.WalletId == walletID {
			txs = append(txs, *tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (s *Store) RecordDeposit(_ context.Context, tx *models.Transaction) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[tx.WalletId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, tx.WalletId)
	}
	if tx.Kind != models.DEPOSIT || !tx.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: deposit %s must be recorded in a terminal status", models.ErrInvalidStateTransition, tx.Id)
	}

	stored := *tx
	s.transactions[stored.Id] = &stored
	if stored.Status == models.SUCCESS {
		wallet.Balance += stored.Amount
		wallet.Version++
		s.appendEntryLocked(&stored, 0, stored.Amount, fmt.Sprintf("Deposit %s", stored.Id))
	}
	return s.walletLocked(wallet.Id), nil
}

func (s *Store) CreateWithdrawal(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[tx.WalletId]; !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, tx.WalletId)
	}
	if s.walletLocked(tx.WalletId).Available() < tx.Amount {
		return nil, storage.ErrInsufficientFunds
	}

	stored := *tx
	stored.Status = models.PENDING
	s.transactions[stored.Id] = &stored
	s.tasks[stored.Id] = &models.DeferredTask{
		TransactionId: stored.Id,
		Status:        models.TaskPending,
		Attempts:      1,
		UpdatedAt:     stored.CreatedAt,
	}

	out := stored
	return &out, nil
}

func (s *Store) AttachTaskHandle(_ context.Context, txID, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[txID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	task.Handle = handle
	task.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) CancelWithdrawal(ctx context.Context, txID string, revoke storage.RevokeFunc) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[txID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrTransactionNotFound, txID)
	}
	if !tx.IsPendingWithdrawal() {
		return nil, storage.ErrNotCancelable
	}

	if task, ok := s.tasks[txID]; ok && revoke != nil {
		snapshot := *task
		revoke(ctx, &snapshot)
	}

	if err := s.finalizeLocked(tx, models.CANCELED); err != nil {
		return nil, err
	}
	out := *tx
	return &out, nil
}

func (s *Store) SettleWithdrawal(_ context.Context, txID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pendingWithdrawalLocked(txID)
	if err != nil {
		return nil, err
	}
	wallet, ok := s.wallets[tx.WalletId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, tx.WalletId)
	}

	if err := s.finalizeLocked(tx, models.SUCCESS); err != nil {
		return nil, err
	}
	wallet.Balance -= tx.Amount
	wallet.Version++
	s.appendEntryLocked(tx, tx.Amount, 0, fmt.Sprintf("Settlement for withdrawal %s", tx.Id))
	return s.walletLocked(wallet.Id), nil
}

func (s *Store) FailWithdrawal(_ context.Context, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pendingWithdrawalLocked(txID)
	if err != nil {
		return err
	}
	return s.finalizeLocked(tx, models.FAILED)
}

func (s *Store) MarkTaskFailed(_ context.Context, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.pendingWithdrawalLocked(txID); err != nil {
		return err
	}
	task, ok := s.tasks[txID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	task.Status = models.TaskFailed
	task.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ListStalledWithdrawals(_ context.Context, dueBefore time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stalled []models.Transaction
	for _, tx := range s.transactions {
		if tx.IsPendingWithdrawal() && tx.ScheduledFor != nil && tx.ScheduledFor.Before(dueBefore) {
			stalled = append(stalled, *tx)
		}
	}
	sort.Slice(stalled, func(i, j int) bool {
		return stalled[i].ScheduledFor.Before(*stalled[j].ScheduledFor)
	})
	return stalled, nil
}

func (s *Store) RescheduleTask(_ context.Context, txID, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.pendingWithdrawalLocked(txID); err != nil {
		return err
	}
	task, ok := s.tasks[txID]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
	}
	task.Handle = handle
	task.Status = models.TaskPending
	task.Attempts++
	task.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ListLedgerEntries(_ context.Context, walletID string, limit int32) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []models.LedgerEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].WalletID != walletID {
			continue
		}
		entries = append(entries, s.entries[i])
		if limit > 0 && int32(len(entries)) >= limit {
			break
		}
	}
	return entries, nil
}

// walletLocked returns a copy of the wallet with Reserved derived from the pending withdrawals.
func (s *Store) walletLocked(walletID string) *models.Wallet {
	w := *s.wallets[walletID]
	w.Reserved = 0
	for _, tx := range s.transactions {
		if tx.WalletId == walletID && tx.IsPendingWithdrawal() {
			w.Reserved += tx.Amount
		}
	}
	return &w
}

func (s *Store) pendingWithdrawalLocked(txID string) (*models.Transaction, error) {
	tx, ok := s.transactions[txID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrTransactionNotFound, txID)
	}
	if !tx.IsPendingWithdrawal() {
		return nil, storage.ErrTransactionNotPending
	}
	return tx, nil
}

// finalizeLocked moves a pending withdrawal to a terminal status and mirrors it on the task.
func (s *Store) finalizeLocked(tx *models.Transaction, status models.TransactionStatus) error {
	if err := tx.TransitionTo(status); err != nil {
		return err
	}
	now := time.Now().UTC()
	tx.UpdatedAt = now
	if task, ok := s.tasks[tx.Id]; ok {
		task.Status = models.TaskStatusFor(status)
		task.UpdatedAt = now
	}
	return nil
}

func (s *Store) appendEntryLocked(tx *models.Transaction, debit, credit int64, description string) {
	s.entries = append(s.entries, models.LedgerEntry{
		EntryID:       uuid.New().String(),
		TransactionID: tx.Id,
		WalletID:      tx.WalletId,
		Debit:         debit,
		Credit:        credit,
		Description:   description,
		Timestamp:     time.Now().UTC(),
	})
}
