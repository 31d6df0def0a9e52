package storage

import "errors"

// ErrInsufficientFunds is returned when a wallet's available balance cannot cover a withdrawal.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNotCancelable is returned when a transaction cannot be cancelled because it is no longer pending.
var ErrNotCancelable = errors.New("transaction not in a cancelable state")

// ErrTransactionNotPending is returned when a settlement or failure races with another finalizer and loses.
var ErrTransactionNotPending = errors.New("transaction is no longer pending")

// ErrTransactionNotFound is returned when no transaction exists for the given ID.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrTaskNotFound is returned when a withdrawal has no deferred task record.
var ErrTaskNotFound = errors.New("deferred task not found")

// ErrWalletNotFound is returned when no wallet exists for the given ID.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrWalletExists is returned when the owner already has a wallet.
var ErrWalletExists = errors.New("wallet already exists for owner")
