package withdrawals

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	alertmocks "github.com/chris/scheduled-withdrawals/pkg/alerts/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/cache"
	gatewaymocks "github.com/chris/scheduled-withdrawals/pkg/gateway/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/storage/memory"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type env struct {
	store       *memory.Store
	ledger      *ledger.Ledger
	gateway     *gatewaymocks.Client
	alerter     *alertmocks.Alerter
	service     *Service
	executor    *Executor
	coordinator *Coordinator
}

func newEnv(t *testing.T, sched scheduler.Scheduler) *env {
	t.Helper()
	store := memory.New()
	balances, err := cache.NewLRUCache(16)
	require.NoError(t, err)
	gw := gatewaymocks.NewClient(t)
	alerter := alertmocks.NewAlerter(t)
	logger := logging.Discard()
	l := ledger.New(store, balances, gw, logger)

	return &env{
		store:       store,
		ledger:      l,
		gateway:     gw,
		alerter:     alerter,
		service:     NewService(store, sched, logger),
		executor:    NewExecutor(store, l, gw, alerter, logger),
		coordinator: NewCoordinator(store, sched, logger),
	}
}

func newRedisScheduler(t *testing.T) *scheduler.RedisScheduler {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return scheduler.NewRedisScheduler(client, logging.Discard())
}

func (e *env) seedWallet(t *testing.T, balance int64) *models.Wallet {
	t.Helper()
	w, err := e.store.CreateWallet(context.Background(), &models.Wallet{
		Id:        uuid.New().String(),
		OwnerId:   uuid.New().String(),
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return w
}

func (e *env) wallet(t *testing.T, walletID string) *models.Wallet {
	t.Helper()
	w, err := e.store.GetWallet(context.Background(), walletID)
	require.NoError(t, err)
	return w
}

func (e *env) transaction(t *testing.T, txID string) *models.Transaction {
	t.Helper()
	tx, err := e.store.GetTransaction(context.Background(), txID)
	require.NoError(t, err)
	return tx
}

func (e *env) task(t *testing.T, txID string) *models.DeferredTask {
	t.Helper()
	task, err := e.store.GetTask(context.Background(), txID)
	require.NoError(t, err)
	return task
}
