package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/cache"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	gatewaymocks "github.com/chris/scheduled-withdrawals/pkg/gateway/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/chris/scheduled-withdrawals/pkg/storage/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ledger  *Ledger
	store   *memory.Store
	cache   *cache.LRUCache
	gateway *gatewaymocks.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	balances, err := cache.NewLRUCache(16)
	require.NoError(t, err)
	gw := gatewaymocks.NewClient(t)
	return &fixture{
		ledger:  New(store, balances, gw, logging.Discard()),
		store:   store,
		cache:   balances,
		gateway: gw,
	}
}

func (f *fixture) seedWallet(t *testing.T, balance int64) *models.Wallet {
	t.Helper()
	w, err := f.store.CreateWallet(context.Background(), &models.Wallet{
		Id:        uuid.New().String(),
		OwnerId:   uuid.New().String(),
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return w
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 1000)

		f.gateway.On("Transfer", mock.Anything, gateway.Request{WalletID: w.Id, Amount: 500, Type: gateway.Deposit}).
			Once().Return(&gateway.Response{StatusCode: 200, Status: 200}, nil)

		result, err := f.ledger.Deposit(ctx, w.Id, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), result.Balance)
		assert.Equal(t, models.SUCCESS, result.Transaction.Status)
		assert.Equal(t, models.DEPOSIT, result.Transaction.Kind)
		assert.Equal(t, int64(500), result.Transaction.Amount)

		cached, ok, err := f.cache.Get(ctx, w.Id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(1500), cached)

		entries, err := f.ledger.ListLedgerEntries(ctx, w.Id, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(500), entries[0].Credit)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 1000)

		for _, amount := range []int64{0, -5} {
			_, err := f.ledger.Deposit(ctx, w.Id, amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
		f.gateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ledger.Deposit(ctx, "missing", 100)
		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
	})

	t.Run("Refused By Gateway", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 1000)

		f.gateway.On("Transfer", mock.Anything, mock.Anything).
			Once().Return(nil, &gateway.HTTPError{StatusCode: 402, Body: "declined"})

		result, err := f.ledger.Deposit(ctx, w.Id, 500)
		require.NoError(t, err)
		assert.Equal(t, models.FAILED, result.Transaction.Status)
		assert.Equal(t, int64(1000), result.Balance)

		txs, err := f.ledger.ListTransactions(ctx, w.Id)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, models.FAILED, txs[0].Status)
	})

	t.Run("Body Reports Failure", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 1000)

		f.gateway.On("Transfer", mock.Anything, mock.Anything).
			Once().Return(&gateway.Response{StatusCode: 200, Status: 402}, nil)

		result, err := f.ledger.Deposit(ctx, w.Id, 500)
		require.NoError(t, err)
		assert.Equal(t, models.FAILED, result.Transaction.Status)

		balance, err := f.ledger.Balance(ctx, w.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), balance)
	})

	t.Run("Gateway Unreachable", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 1000)

		f.gateway.On("Transfer", mock.Anything, mock.Anything).
			Once().Return(nil, &gateway.TimeoutError{URL: "http://gateway", Timeout: time.Second, Err: context.DeadlineExceeded})

		_, err := f.ledger.Deposit(ctx, w.Id, 500)
		var timeoutErr *gateway.TimeoutError
		assert.True(t, errors.As(err, &timeoutErr))

		txs, err := f.ledger.ListTransactions(ctx, w.Id)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache Miss Repopulates", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 700)

		balance, err := f.ledger.Balance(ctx, w.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(700), balance)

		cached, ok, err := f.cache.Get(ctx, w.Id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(700), cached)
	})

	t.Run("Cache Hit", func(t *testing.T) {
		f := newFixture(t)
		w := f.seedWallet(t, 700)
		require.NoError(t, f.cache.Set(ctx, w.Id, 42, w.Version))

		balance, err := f.ledger.Balance(ctx, w.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(42), balance)
	})

	t.Run("Cache Failure Falls Back To Storage", func(t *testing.T) {
		store := memory.New()
		l := New(store, brokenCache{}, gatewaymocks.NewClient(t), logging.Discard())
		w, err := store.CreateWallet(ctx, &models.Wallet{Id: "wallet-1", OwnerId: "owner-1", Balance: 300})
		require.NoError(t, err)

		balance, err := l.Balance(ctx, w.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(300), balance)
	})
}

func TestAvailableBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := f.seedWallet(t, 1500)

	due := time.Now().UTC().Add(time.Minute)
	_, err := f.store.CreateWithdrawal(ctx, &models.Transaction{
		Id: uuid.New().String(), WalletId: w.Id, Kind: models.WITHDRAWAL, Amount: 1000, ScheduledFor: &due,
	})
	require.NoError(t, err)

	available, err := f.ledger.AvailableBalance(ctx, w.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(500), available)

	balance, err := f.ledger.Balance(ctx, w.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)
}

func TestApplyWithdrawalSettlement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	w := f.seedWallet(t, 1500)
	require.NoError(t, f.cache.Set(ctx, w.Id, 1500, w.Version))

	due := time.Now().UTC().Add(time.Minute)
	tx, err := f.store.CreateWithdrawal(ctx, &models.Transaction{
		Id: uuid.New().String(), WalletId: w.Id, Kind: models.WITHDRAWAL, Amount: 1000, ScheduledFor: &due,
	})
	require.NoError(t, err)

	wallet, err := f.ledger.ApplyWithdrawalSettlement(ctx, tx.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(500), wallet.Balance)

	cached, _, err := f.cache.Get(ctx, w.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(500), cached)

	_, err = f.ledger.ApplyWithdrawalSettlement(ctx, tx.Id)
	assert.ErrorIs(t, err, storage.ErrTransactionNotPending)

	// A write carrying the pre-settlement wallet arrives late and is ignored.
	f.ledger.writeThrough(ctx, w)
	balance, err := f.ledger.Balance(ctx, w.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
}

func TestCreateWallet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	w, err := f.ledger.CreateWallet(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)

	_, err = f.ledger.CreateWallet(ctx, "owner-1")
	assert.ErrorIs(t, err, storage.ErrWalletExists)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (int64, bool, error) {
	return 0, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, int64, int64) error { return errors.New("cache down") }

func (brokenCache) Invalidate(context.Context, string) error { return errors.New("cache down") }
