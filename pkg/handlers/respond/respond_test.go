package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid amount", ledger.ErrInvalidAmount, http.StatusBadRequest},
		{"schedule in past", withdrawals.ErrScheduleInPast, http.StatusBadRequest},
		{"wallet not found", fmt.Errorf("%w: w-1", storage.ErrWalletNotFound), http.StatusNotFound},
		{"transaction not found", storage.ErrTransactionNotFound, http.StatusNotFound},
		{"insufficient funds", storage.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"not cancelable", storage.ErrNotCancelable, http.StatusConflict},
		{"wallet exists", storage.ErrWalletExists, http.StatusConflict},
		{"gateway timeout", fmt.Errorf("failed to deposit: %w", &gateway.TimeoutError{URL: "http://gw"}), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)

	Error(rr, req, logging.Discard(), errors.New("connection reset by peer"), "list wallets")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to list wallets")
	assert.NotContains(t, rr.Body.String(), "connection reset")
}
