package models

import (
	"time"
)

// TransactionKind distinguishes balance increments from balance decrements.
type TransactionKind string

const (
	DEPOSIT    TransactionKind = "DEPOSIT"
	WITHDRAWAL TransactionKind = "WITHDRAWAL"
)

// Transaction represents the internal domain model for a transaction.
// Everything except Status and UpdatedAt is fixed at creation.
type Transaction struct {
	Id           string            `json:"id" dynamodbav:"id"`
	WalletId     string            `json:"wallet_id" dynamodbav:"wallet_id"`
	Kind         TransactionKind   `json:"kind" dynamodbav:"kind"`
	Amount       int64             `json:"amount" dynamodbav:"amount"`
	ScheduledFor *time.Time        `json:"scheduled_for,omitempty" dynamodbav:"scheduled_for,omitempty"`
	Status       TransactionStatus `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time         `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" dynamodbav:"updated_at"`
}

// IsPendingWithdrawal reports whether the transaction still reserves funds.
func (t *Transaction) IsPendingWithdrawal() bool {
	return t.Kind == WITHDRAWAL && t.Status == PENDING
}

// Wallet represents the internal domain model for a user's wallet.
type Wallet struct {
	Id      string `json:"id" dynamodbav:"wallet_id"`
	OwnerId string `json:"owner_id" dynamodbav:"owner_id"`
	Balance int64  `json:"balance" dynamodbav:"balance"`
	// Reserved is the sum of the amounts of all pending withdrawals.
	Reserved  int64     `json:"reserved" dynamodbav:"reserved"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Available returns the balance that is not already promised to a pending withdrawal.
func (w *Wallet) Available() int64 {
	return w.Balance - w.Reserved
}

// TaskStatus mirrors the outcome of a deferred execution.
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskSuccess TaskStatus = "SUCCESS"
	TaskFailed  TaskStatus = "FAILED"
)

// DeferredTask links a withdrawal to the scheduler entry that will execute it.
type DeferredTask struct {
	TransactionId string     `json:"transaction_id" dynamodbav:"transaction_id"`
	Handle        string     `json:"handle" dynamodbav:"handle"`
	Status        TaskStatus `json:"status" dynamodbav:"status"`
	Attempts      int        `json:"attempts" dynamodbav:"attempts"`
	UpdatedAt     time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// LedgerEntry is the audit record written alongside every committed balance mutation.
type LedgerEntry struct {
	EntryID       string    `json:"entry_id" dynamodbav:"entry_id"`
	TransactionID string    `json:"transaction_id" dynamodbav:"transaction_id"`
	WalletID      string    `json:"wallet_id" dynamodbav:"wallet_id"`
	Debit         int64     `json:"debit,omitempty" dynamodbav:"debit,omitempty"`
	Credit        int64     `json:"credit,omitempty" dynamodbav:"credit,omitempty"`
	Description   string    `json:"description" dynamodbav:"description"`
	Timestamp     time.Time `json:"timestamp" dynamodbav:"timestamp"`
}
