package models

import (
	"errors"
	"fmt"
)

// TransactionStatus defines the possible states of a transaction.
type TransactionStatus string

const (
	PENDING  TransactionStatus = "PENDING"
	SUCCESS  TransactionStatus = "SUCCESS"
	FAILED   TransactionStatus = "FAILED"
	CANCELED TransactionStatus = "CANCELED"
)

// ErrInvalidStateTransition is returned when a status change is not permitted by the state machine.
var ErrInvalidStateTransition = errors.New("invalid transaction state transition")

// IsTerminal reports whether no further transition is permitted out of s.
func (s TransactionStatus) IsTerminal() bool {
	return s != PENDING
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// Only PENDING may move, and only to one of the terminal statuses.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != PENDING {
		return false
	}
	switch next {
	case SUCCESS, FAILED, CANCELED:
		return true
	}
	return false
}

// TransitionTo applies a status change, refusing anything the state machine does not allow.
func (t *Transaction) TransitionTo(next TransactionStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s for transaction %s", ErrInvalidStateTransition, t.Status, next, t.Id)
	}
	t.Status = next
	return nil
}

// TaskStatusFor returns the deferred task status that mirrors a terminal transaction status.
func TaskStatusFor(s TransactionStatus) TaskStatus {
	switch s {
	case SUCCESS:
		return TaskSuccess
	case FAILED, CANCELED:
		return TaskFailed
	}
	return TaskPending
}
