package ledger

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/handlers/respond"
	"github.com/chris/scheduled-withdrawals/pkg/mapping"
	"github.com/chris/scheduled-withdrawals/pkg/models"
)

const defaultLimit = 20

// EntryReader reads the audit trail of a wallet.
type EntryReader interface {
	ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error)
}

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	Reader EntryReader
	Logger *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reader EntryReader, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{Reader: reader, Logger: logger}
}

func (h *LedgerHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request, walletId string, params api.ListLedgerEntriesParams) {
	limit := int32(defaultLimit)
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit <= 0 {
		http.Error(w, "limit must be positive", http.StatusBadRequest)
		return
	}

	domainEntries, err := h.Reader.ListLedgerEntries(r.Context(), walletId, limit)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve ledger entries")
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(domainEntries))
	for i := range domainEntries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&domainEntries[i])
	}

	respond.JSON(w, http.StatusOK, apiEntries)
}
