package wallets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/handlers/respond"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/mapping"
	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// WalletService is the part of the ledger the wallet endpoints use.
type WalletService interface {
	CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	Balance(ctx context.Context, walletID string) (int64, error)
	AvailableBalance(ctx context.Context, walletID string) (int64, error)
	Deposit(ctx context.Context, walletID string, amount int64) (*ledger.DepositResult, error)
}

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Service WalletService
	Logger  *slog.Logger
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(service WalletService, logger *slog.Logger) *WalletsHandler {
	return &WalletsHandler{Service: service, Logger: logger}
}

// CreateWallet handles the logic for creating a new wallet.
func (h *WalletsHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var newWallet api.NewWallet
	if err := json.NewDecoder(r.Body).Decode(&newWallet); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(newWallet.OwnerId) == "" {
		http.Error(w, "owner_id is required", http.StatusBadRequest)
		return
	}

	createdWallet, err := h.Service.CreateWallet(r.Context(), newWallet.OwnerId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "create wallet")
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiWallet(createdWallet))
}

// ListWallets handles the logic for retrieving all wallets.
func (h *WalletsHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	domainWallets, err := h.Service.ListWallets(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve wallets")
		return
	}

	// Sort wallets by CreatedAt in descending order.
	sort.Slice(domainWallets, func(i, j int) bool {
		return domainWallets[i].CreatedAt.After(domainWallets[j].CreatedAt)
	})

	apiWallets := make([]*api.Wallet, len(domainWallets))
	for i := range domainWallets {
		apiWallets[i] = mapping.ToApiWallet(&domainWallets[i])
	}

	respond.JSON(w, http.StatusOK, apiWallets)
}

// GetWalletById handles the logic for retrieving a wallet.
func (h *WalletsHandler) GetWalletById(w http.ResponseWriter, r *http.Request, walletId string) {
	domainWallet, err := h.Service.GetWallet(r.Context(), walletId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve wallet")
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiWallet(domainWallet))
}

// GetWalletBalance returns the (possibly cached) balance and the authoritative available balance.
func (h *WalletsHandler) GetWalletBalance(w http.ResponseWriter, r *http.Request, walletId string) {
	balance, err := h.Service.Balance(r.Context(), walletId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve balance")
		return
	}
	available, err := h.Service.AvailableBalance(r.Context(), walletId)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "retrieve available balance")
		return
	}

	respond.JSON(w, http.StatusOK, &api.Balance{WalletId: walletId, Balance: balance, Available: available})
}

// CreateDeposit moves money into a wallet. A deposit refused by the payment service is
// still recorded and returned with 402.
func (h *WalletsHandler) CreateDeposit(w http.ResponseWriter, r *http.Request, walletId string) {
	var newDeposit api.NewDeposit
	if err := json.NewDecoder(r.Body).Decode(&newDeposit); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.Service.Deposit(r.Context(), walletId, newDeposit.Amount)
	if err != nil {
		respond.Error(w, r, h.Logger, err, "deposit")
		return
	}

	status := http.StatusCreated
	if result.Transaction.Status != models.SUCCESS {
		status = http.StatusPaymentRequired
	}
	respond.JSON(w, status, mapping.ToApiTransaction(result.Transaction))
}
