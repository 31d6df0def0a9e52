package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/config"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/handlers"
	"github.com/chris/scheduled-withdrawals/pkg/infra"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/middleware"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
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

	gw := gateway.NewHTTPClient(cfg.GatewayURL, cfg.GatewayTimeout, logger)
	l := ledger.New(in.Store, in.Cache, gw, logger)
	handler := handlers.NewApiHandler(l,
		withdrawals.NewService(in.Store, in.Scheduler, logger),
		withdrawals.NewCoordinator(in.Store, in.Scheduler, logger),
		logger,
	)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)
	api.HandlerFromMux(handler, router)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "storage", cfg.StorageDriver, "cache", cfg.CacheDriver, "scheduler", cfg.SchedulerDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
