package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/scheduled-withdrawals/pkg/config"
	"github.com/chris/scheduled-withdrawals/pkg/infra"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
)

// Reconciler resolves stalled withdrawals.
type Reconciler interface {
	Run(ctx context.Context) (withdrawals.Report, error)
}

// Handler is triggered by an EventBridge schedule.
type Handler struct {
	Reconciler Reconciler
	Logger     *slog.Logger
}

// HandleRequest runs one reconciliation pass. Errors on single withdrawals are logged and
// do not fail the invocation; the next scheduled pass picks them up again.
func (h *Handler) HandleRequest(ctx context.Context) (withdrawals.Report, error) {
	h.Logger.InfoContext(ctx, "starting reconciliation of stalled withdrawals")

	report, err := h.Reconciler.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return report, err
		}
		h.Logger.ErrorContext(ctx, "reconciliation finished with errors", "error", err)
	}

	h.Logger.InfoContext(ctx, "reconciliation finished",
		"rescheduled", report.Rescheduled,
		"failed", report.Failed,
		"overdue", report.Overdue,
	)
	return report, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	in, err := infra.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to open backing services", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	h := &Handler{
		Reconciler: withdrawals.NewReconciler(in.Store, in.Scheduler, in.Alerter, withdrawals.ReconcilerConfig{
			StallThreshold: cfg.ReconcileStallThreshold,
			MaxAttempts:    cfg.ReconcileMaxAttempts,
		}, logger),
		Logger: logger,
	}

	lambda.Start(h.HandleRequest)
}
