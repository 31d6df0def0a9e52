// Package alerts notifies operators about withdrawals that need a human decision.
package alerts

import (
	"context"
	"log/slog"
	"time"
)

// Reason names the condition that raised an alert.
type Reason string

const (
	// GatewayUnreachable is raised when the outcome of a gateway call is unknown.
	GatewayUnreachable Reason = "gateway_unreachable"
	// SettlementConflict is raised when the gateway accepted a withdrawal that was already finalized.
	SettlementConflict Reason = "settlement_conflict"
	// SettlementFailed is raised when the gateway accepted a withdrawal but the debit could not be stored.
	SettlementFailed Reason = "settlement_failed"
	// RetriesExhausted is raised when a withdrawal was failed after too many scheduling attempts.
	RetriesExhausted Reason = "retries_exhausted"
	// ExecutionOverdue is raised when a scheduled withdrawal has not run long after its due time.
	ExecutionOverdue Reason = "execution_overdue"
)

// Alert describes a withdrawal that needs attention.
type Alert struct {
	Reason        Reason    `json:"reason"`
	TransactionID string    `json:"transaction_id"`
	WalletID      string    `json:"wallet_id,omitempty"`
	Attempts      int       `json:"attempts,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	RaisedAt      time.Time `json:"raised_at"`
}

// Alerter delivers alerts.
type Alerter interface {
	Alert(ctx context.Context, alert Alert) error
}

// LogAlerter writes alerts to the log at error level.
type LogAlerter struct {
	logger *slog.Logger
}

// NewLogAlerter creates a new LogAlerter.
func NewLogAlerter(logger *slog.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

// Make sure we conform to the interface
var _ Alerter = (*LogAlerter)(nil)

func (a *LogAlerter) Alert(ctx context.Context, alert Alert) error {
	a.logger.ErrorContext(ctx, "withdrawal alert",
		"reason", alert.Reason,
		"transaction_id", alert.TransactionID,
		"wallet_id", alert.WalletID,
		"attempts", alert.Attempts,
		"detail", alert.Detail,
	)
	return nil
}
