package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chris/scheduled-withdrawals/pkg/config"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/infra"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
	"github.com/chris/scheduled-withdrawals/pkg/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := infra.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open backing services", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	queue, err := in.RedisScheduler()
	if err != nil {
		logger.Error("worker cannot start", "error", err)
		os.Exit(1)
	}

	gw := gateway.NewHTTPClient(cfg.GatewayURL, cfg.GatewayTimeout, logger)
	l := ledger.New(in.Store, in.Cache, gw, logger)
	executor := withdrawals.NewExecutor(in.Store, l, gw, in.Alerter, logger)
	reconciler := withdrawals.NewReconciler(in.Store, in.Scheduler, in.Alerter, withdrawals.ReconcilerConfig{
		StallThreshold: cfg.ReconcileStallThreshold,
		MaxAttempts:    cfg.ReconcileMaxAttempts,
	}, logger)

	w := worker.New(queue, executor, reconciler, worker.Config{
		Concurrency:       cfg.WorkerConcurrency,
		PollInterval:      cfg.WorkerPollInterval,
		VisibilityTimeout: cfg.WorkerVisibilityTimeout,
		ReconcileInterval: cfg.ReconcileInterval,
	}, logger)

	logger.Info("starting worker", "concurrency", cfg.WorkerConcurrency, "storage", cfg.StorageDriver)
	if err := w.Run(ctx); err != nil {
		logger.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
