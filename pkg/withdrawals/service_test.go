package withdrawals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/ledger"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// unrecordedHandleStore loses every task handle it is given.
type unrecordedHandleStore struct {
	ScheduleStore
}

func (unrecordedHandleStore) AttachTaskHandle(context.Context, string, string) error {
	return errors.New("conditional check failed")
}

func TestSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w := e.seedWallet(t, 1500)
		due := time.Now().Add(time.Minute)

		sched.On("Schedule", mock.Anything, mock.AnythingOfType("string"), due.UTC()).Once().Return("handle-1", nil)

		tx, err := e.service.Schedule(ctx, w.Id, 1000, due)
		require.NoError(t, err)
		assert.Equal(t, models.PENDING, tx.Status)
		assert.Equal(t, models.WITHDRAWAL, tx.Kind)
		require.NotNil(t, tx.ScheduledFor)
		assert.True(t, tx.ScheduledFor.Equal(due))

		task := e.task(t, tx.Id)
		assert.Equal(t, "handle-1", task.Handle)
		assert.Equal(t, models.TaskPending, task.Status)

		got := e.wallet(t, w.Id)
		assert.Equal(t, int64(1500), got.Balance)
		assert.Equal(t, int64(500), got.Available())
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w := e.seedWallet(t, 1500)

		_, err := e.service.Schedule(ctx, w.Id, 2000, time.Now().Add(time.Minute))
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)

		txs, err := e.store.ListTransactionsByWallet(ctx, w.Id)
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.Equal(t, int64(1500), e.wallet(t, w.Id).Balance)
		sched.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Pending Withdrawals Reduce Available Balance", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w := e.seedWallet(t, 1500)
		sched.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Once().Return("handle-1", nil)

		_, err := e.service.Schedule(ctx, w.Id, 1000, time.Now().Add(time.Minute))
		require.NoError(t, err)

		_, err = e.service.Schedule(ctx, w.Id, 501, time.Now().Add(time.Minute))
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})

	t.Run("Invalid Amount", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))
		w := e.seedWallet(t, 1500)

		_, err := e.service.Schedule(ctx, w.Id, 0, time.Now().Add(time.Minute))
		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})

	t.Run("Due Time In The Past", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))
		w := e.seedWallet(t, 1500)

		_, err := e.service.Schedule(ctx, w.Id, 100, time.Now().Add(-time.Second))
		assert.ErrorIs(t, err, ErrScheduleInPast)
	})

	t.Run("Wallet Not Found", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))

		_, err := e.service.Schedule(ctx, "missing", 100, time.Now().Add(time.Minute))
		assert.ErrorIs(t, err, storage.ErrWalletNotFound)
	})

	t.Run("Scheduler Failure Releases Reservation", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w := e.seedWallet(t, 1500)
		sched.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Once().Return("", errors.New("redis down"))

		_, err := e.service.Schedule(ctx, w.Id, 1000, time.Now().Add(time.Minute))
		assert.ErrorContains(t, err, "failed to schedule withdrawal")

		txs, err := e.store.ListTransactionsByWallet(ctx, w.Id)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, models.FAILED, txs[0].Status)
		assert.Equal(t, int64(1500), e.wallet(t, w.Id).Available())
	})

	t.Run("Unrecorded Handle Revokes Job And Releases Reservation", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w := e.seedWallet(t, 1500)
		sched.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Once().Return("handle-1", nil)
		sched.On("Revoke", mock.Anything, "handle-1", false).Once().Return(scheduler.RevokeRevoked, nil)

		service := NewService(unrecordedHandleStore{e.store}, sched, logging.Discard())
		_, err := service.Schedule(ctx, w.Id, 1000, time.Now().Add(time.Minute))
		assert.ErrorContains(t, err, "failed to record task handle")

		txs, err := e.store.ListTransactionsByWallet(ctx, w.Id)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, models.FAILED, txs[0].Status)
		assert.Equal(t, int64(1500), e.wallet(t, w.Id).Available())
	})
}

func TestScheduleConcurrent(t *testing.T) {
	ctx := context.Background()
	sched := mocks.NewScheduler(t)
	e := newEnv(t, sched)
	w := e.seedWallet(t, 1500)
	sched.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Return("handle", nil)

	const n = 2
	due := time.Now().Add(time.Minute)
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = e.service.Schedule(ctx, w.Id, 1000, due)
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, storage.ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	got := e.wallet(t, w.Id)
	assert.Equal(t, int64(1500), got.Balance)
	assert.Equal(t, int64(500), got.Available())
}
