// Package scheduler defers the execution of a withdrawal until its due time.
package scheduler

import (
	"context"
	"time"
)

// RevokeOutcome classifies what happened to a revoke request.
type RevokeOutcome int

const (
	// RevokeRevoked means the job was removed before any worker picked it up.
	RevokeRevoked RevokeOutcome = iota
	// RevokeAlreadyRunning means a worker holds the job; an interrupt may have been sent.
	RevokeAlreadyRunning
	// RevokeUnknown means the scheduler cannot tell whether the job will still run.
	RevokeUnknown
)

func (o RevokeOutcome) String() string {
	switch o {
	case RevokeRevoked:
		return "revoked"
	case RevokeAlreadyRunning:
		return "already_running"
	default:
		return "unknown"
	}
}

// Scheduler registers a transaction for execution at a later instant.
type Scheduler interface {
	// Schedule registers the transaction to run at dueAt and returns an opaque handle for it.
	Schedule(ctx context.Context, transactionID string, dueAt time.Time) (string, error)

	// Revoke asks the scheduler not to run the job behind handle. With terminate set, a job
	// that is already executing is asked to stop.
	Revoke(ctx context.Context, handle string, terminate bool) (RevokeOutcome, error)
}

// Job is a unit of work handed to a worker.
type Job struct {
	Handle        string
	TransactionID string
}
