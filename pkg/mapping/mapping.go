package mapping

import (
	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:           tx.Id,
		WalletId:     tx.WalletId,
		Kind:         api.TransactionKind(tx.Kind),
		Amount:       tx.Amount,
		Status:       api.TransactionStatus(tx.Status),
		ScheduledFor: tx.ScheduledFor,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}

// ToApiTransactions converts a slice of domain transactions.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiWallet converts a domain Wallet model to an API Wallet model.
func ToApiWallet(wallet *models.Wallet) *api.Wallet {
	return &api.Wallet{
		Id:        wallet.Id,
		OwnerId:   wallet.OwnerId,
		Balance:   wallet.Balance,
		Reserved:  wallet.Reserved,
		CreatedAt: wallet.CreatedAt,
	}
}

// ToApiTask converts a domain DeferredTask to its API model.
func ToApiTask(task *models.DeferredTask) *api.DeferredTask {
	return &api.DeferredTask{
		TransactionId: task.TransactionId,
		Handle:        task.Handle,
		Status:        api.DeferredTaskStatus(task.Status),
		Attempts:      task.Attempts,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry to its API model. Zero sides are omitted.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		EntryId:       entry.EntryID,
		TransactionId: entry.TransactionID,
		WalletId:      entry.WalletID,
		Description:   entry.Description,
		Timestamp:     entry.Timestamp,
	}
	if entry.Debit != 0 {
		debit := entry.Debit
		out.Debit = &debit
	}
	if entry.Credit != 0 {
		credit := entry.Credit
		out.Credit = &credit
	}
	return out
}
