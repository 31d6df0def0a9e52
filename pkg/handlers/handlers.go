package handlers

import (
	"log/slog"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	ledgerhandler "github.com/chris/scheduled-withdrawals/pkg/handlers/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/handlers/transactions"
	"github.com/chris/scheduled-withdrawals/pkg/handlers/wallets"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
)

// ApiHandler implements the generated server interface by composing the per-resource handlers.
type ApiHandler struct {
	*wallets.WalletsHandler
	*transactions.TransactionsHandler
	*ledgerhandler.LedgerHandler
}

// NewApiHandler wires the handlers to the ledger and the withdrawal services.
func NewApiHandler(l *ledger.Ledger, service *withdrawals.Service, coordinator *withdrawals.Coordinator, logger *slog.Logger) *ApiHandler {
	return &ApiHandler{
		WalletsHandler:      wallets.NewWalletsHandler(l, logger),
		TransactionsHandler: transactions.NewTransactionsHandler(l, service, coordinator, logger),
		LedgerHandler:       ledgerhandler.NewLedgerHandler(l, logger),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
