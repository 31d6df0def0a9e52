package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
)

// Forwarder re-enqueues messages that arrived before their due time.
type Forwarder interface {
	IsDue(msg scheduler.Message) bool
	Forward(ctx context.Context, msg scheduler.Message) error
}

// Executor runs a due withdrawal.
type Executor interface {
	Execute(ctx context.Context, txID string) error
}

// Handler consumes scheduled withdrawal messages from SQS.
type Handler struct {
	Forwarder Forwarder
	Executor  Executor
	Logger    *slog.Logger
}

// HandleRequest executes every due withdrawal in the batch. Only records worth redelivering
// are reported back as failures: malformed messages and withdrawals whose gateway outcome is
// unknown are acknowledged, the latter being left to the reconciler.
func (h *Handler) HandleRequest(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, record := range event.Records {
		if err := h.handle(ctx, record); err != nil {
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}
	return resp, nil
}

func (h *Handler) handle(ctx context.Context, record events.SQSMessage) error {
	logger := h.Logger.With("message_id", record.MessageId)

	msg, err := scheduler.ParseMessage(record.Body)
	if err != nil {
		logger.ErrorContext(ctx, "dropping malformed message", "error", err)
		return nil
	}
	logger = logger.With("transaction_id", msg.TransactionID, "handle", msg.Handle)

	if !h.Forwarder.IsDue(msg) {
		if err := h.Forwarder.Forward(ctx, msg); err != nil {
			logger.ErrorContext(ctx, "failed to forward early message", "due_at", msg.DueAt, "error", err)
			return err
		}
		logger.DebugContext(ctx, "message forwarded until due", "due_at", msg.DueAt)
		return nil
	}

	err = h.Executor.Execute(ctx, msg.TransactionID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, withdrawals.ErrNotWithdrawal):
		logger.ErrorContext(ctx, "dropping message for a non-withdrawal transaction", "error", err)
		return nil
	case gateway.IsTransportFailure(err):
		logger.WarnContext(ctx, "withdrawal outcome unknown, leaving it to reconciliation", "error", err)
		return nil
	default:
		logger.ErrorContext(ctx, "failed to execute withdrawal", "error", err)
		return err
	}
}
