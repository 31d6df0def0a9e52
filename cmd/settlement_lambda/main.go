package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/scheduled-withdrawals/pkg/config"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/infra"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	// Dependencies are opened once per execution environment and reused across invocations.
	in, err := infra.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to open backing services", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	forwarder, err := in.SQSScheduler()
	if err != nil {
		logger.Error("settlement lambda cannot start", "error", err)
		os.Exit(1)
	}

	gw := gateway.NewHTTPClient(cfg.GatewayURL, cfg.GatewayTimeout, logger)
	l := ledger.New(in.Store, in.Cache, gw, logger)
	h := &Handler{
		Forwarder: forwarder,
		Executor:  withdrawals.NewExecutor(in.Store, l, gw, in.Alerter, logger),
		Logger:    logger,
	}

	lambda.Start(h.HandleRequest)
}
