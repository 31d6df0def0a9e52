// Package respond holds the JSON and error writers shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, withdrawals.ErrScheduleInPast):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrWalletNotFound),
		errors.Is(err, storage.ErrTransactionNotFound),
		errors.Is(err, storage.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotCancelable), errors.Is(err, storage.ErrWalletExists):
		return http.StatusConflict
	case gateway.IsTransportFailure(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error writes err with the status StatusFor picks. Server errors are logged and their
// details kept out of the response.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, action string) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "action", action, "error", err)
		http.Error(w, fmt.Sprintf("Failed to %s", action), status)
		return
	}
	http.Error(w, err.Error(), status)
}
