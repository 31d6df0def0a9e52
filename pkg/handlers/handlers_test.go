package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/api"
	"github.com/chris/scheduled-withdrawals/pkg/cache"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	gwmocks "github.com/chris/scheduled-withdrawals/pkg/gateway/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/handlers"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	schedmocks "github.com/chris/scheduled-withdrawals/pkg/scheduler/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/storage/memory"
	"github.com/chris/scheduled-withdrawals/pkg/withdrawals"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type server struct {
	router    http.Handler
	gateway   *gwmocks.Client
	scheduler *schedmocks.Scheduler
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.New()
	balances, err := cache.NewLRUCache(16)
	require.NoError(t, err)

	s := &server{gateway: gwmocks.NewClient(t), scheduler: schedmocks.NewScheduler(t)}
	logger := logging.Discard()
	l := ledger.New(store, balances, s.gateway, logger)
	h := handlers.NewApiHandler(l,
		withdrawals.NewService(store, s.scheduler, logger),
		withdrawals.NewCoordinator(store, s.scheduler, logger),
		logger,
	)
	s.router = api.HandlerFromMux(h, chi.NewRouter())
	return s
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(method, path, reader))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestWithdrawalLifecycle(t *testing.T) {
	s := newServer(t)
	s.gateway.On("Transfer", mock.Anything, mock.MatchedBy(func(r gateway.Request) bool { return r.Type == gateway.Deposit })).
		Return(&gateway.Response{StatusCode: http.StatusOK, Status: http.StatusOK}, nil)
	s.scheduler.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Return("handle-1", nil)
	s.scheduler.On("Revoke", mock.Anything, "handle-1", true).Return(scheduler.RevokeRevoked, nil)

	rr := s.do(t, http.MethodPost, "/wallets", api.NewWallet{OwnerId: "owner-1"})
	require.Equal(t, http.StatusCreated, rr.Code)
	wallet := decode[api.Wallet](t, rr)

	rr = s.do(t, http.MethodPost, fmt.Sprintf("/wallets/%s/deposits", wallet.Id), api.NewDeposit{Amount: 1500})
	require.Equal(t, http.StatusCreated, rr.Code)

	due := time.Now().UTC().Add(time.Hour)
	rr = s.do(t, http.MethodPost, fmt.Sprintf("/wallets/%s/withdrawals", wallet.Id), api.NewWithdrawal{Amount: 1000, ScheduledFor: due})
	require.Equal(t, http.StatusCreated, rr.Code)
	withdrawal := decode[api.Transaction](t, rr)
	assert.Equal(t, api.TransactionStatusPENDING, withdrawal.Status)

	t.Run("Reservation Lowers Available Balance", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, fmt.Sprintf("/wallets/%s/balance", wallet.Id), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, api.Balance{WalletId: wallet.Id, Balance: 1500, Available: 500}, decode[api.Balance](t, rr))
	})

	t.Run("Second Withdrawal Exceeds Available", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, fmt.Sprintf("/wallets/%s/withdrawals", wallet.Id), api.NewWithdrawal{Amount: 600, ScheduledFor: due})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Task Carries Handle", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, fmt.Sprintf("/transactions/%s/task", withdrawal.Id), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "handle-1", decode[api.DeferredTask](t, rr).Handle)
	})

	t.Run("Cancel Releases Reservation", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, fmt.Sprintf("/transactions/%s/cancel", withdrawal.Id), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, api.TransactionStatusCANCELED, decode[api.Transaction](t, rr).Status)

		rr = s.do(t, http.MethodGet, fmt.Sprintf("/wallets/%s/balance", wallet.Id), nil)
		assert.Equal(t, int64(1500), decode[api.Balance](t, rr).Available)
	})

	t.Run("Cancel Twice Conflicts", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, fmt.Sprintf("/transactions/%s/cancel", withdrawal.Id), nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("History Newest First", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, fmt.Sprintf("/wallets/%s/transactions", wallet.Id), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		txs := decode[[]api.Transaction](t, rr)
		require.Len(t, txs, 2)
		assert.Equal(t, withdrawal.Id, txs[0].Id)
	})

	t.Run("Ledger Holds Deposit Credit", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, fmt.Sprintf("/wallets/%s/ledger?limit=5", wallet.Id), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		entries := decode[[]api.LedgerEntry](t, rr)
		require.Len(t, entries, 1)
		require.NotNil(t, entries[0].Credit)
		assert.Equal(t, int64(1500), *entries[0].Credit)
	})
}

func TestRouting(t *testing.T) {
	s := newServer(t)

	t.Run("Unknown Wallet", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/wallets/missing/balance", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Unknown Transaction", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/transactions/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Malformed Limit", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/wallets/missing/ledger?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
