package withdrawals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelRevokesScheduledExecution(t *testing.T) {
	ctx := context.Background()
	sched := newRedisScheduler(t)
	e := newEnv(t, sched)
	w := e.seedWallet(t, 1500)

	due := time.Now().Add(time.Minute)
	tx, err := e.service.Schedule(ctx, w.Id, 1000, due)
	require.NoError(t, err)
	assert.Equal(t, int64(500), e.wallet(t, w.Id).Available())

	canceled, err := e.coordinator.Cancel(ctx, tx.Id)
	require.NoError(t, err)
	assert.Equal(t, models.CANCELED, canceled.Status)
	assert.Equal(t, models.TaskFailed, e.task(t, tx.Id).Status)

	got := e.wallet(t, w.Id)
	assert.Equal(t, int64(1500), got.Balance)
	assert.Equal(t, int64(1500), got.Available())

	jobs, err := sched.Claim(ctx, due.Add(time.Second), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestCancelAfterClaimStillCancels(t *testing.T) {
	ctx := context.Background()
	sched := newRedisScheduler(t)
	e := newEnv(t, sched)
	w := e.seedWallet(t, 1500)

	due := time.Now().Add(time.Minute)
	tx, err := e.service.Schedule(ctx, w.Id, 1000, due)
	require.NoError(t, err)

	jobs, err := sched.Claim(ctx, due.Add(time.Second), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	_, err = e.coordinator.Cancel(ctx, tx.Id)
	require.NoError(t, err)

	// The worker fires anyway and must observe the finalized transaction.
	require.NoError(t, e.executor.Execute(ctx, jobs[0].TransactionID))
	e.gateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
	assert.Equal(t, models.CANCELED, e.transaction(t, tx.Id).Status)
	assert.Equal(t, int64(1500), e.wallet(t, w.Id).Balance)
}

func TestCancelRevokeOutcomes(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		outcome scheduler.RevokeOutcome
		err     error
	}{
		"Revoked":         {outcome: scheduler.RevokeRevoked},
		"Already Running": {outcome: scheduler.RevokeAlreadyRunning},
		"Unknown":         {outcome: scheduler.RevokeUnknown},
		"Revoke Error":    {outcome: scheduler.RevokeUnknown, err: errors.New("broker unreachable")},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sched := mocks.NewScheduler(t)
			e := newEnv(t, sched)
			w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)
			sched.On("Revoke", mock.Anything, "handle-1", true).Once().Return(tc.outcome, tc.err)

			canceled, err := e.coordinator.Cancel(ctx, tx.Id)
			require.NoError(t, err)
			assert.Equal(t, models.CANCELED, canceled.Status)
			assert.Equal(t, models.TaskFailed, e.task(t, tx.Id).Status)
			assert.Equal(t, int64(1500), e.wallet(t, w.Id).Available())
		})
	}
}

func TestCancelNotCancelable(t *testing.T) {
	ctx := context.Background()

	t.Run("Settled Withdrawal", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)
		e.gateway.On("Transfer", mock.Anything, mock.Anything).Once().Return(&gateway.Response{StatusCode: 200, Status: 200}, nil)
		require.NoError(t, e.executor.Execute(ctx, tx.Id))

		_, err := e.coordinator.Cancel(ctx, tx.Id)
		assert.ErrorIs(t, err, storage.ErrNotCancelable)
		sched.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)

		assert.Equal(t, models.SUCCESS, e.transaction(t, tx.Id).Status)
		assert.Equal(t, int64(500), e.wallet(t, w.Id).Balance)
	})

	t.Run("Canceled Twice", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		_, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)
		sched.On("Revoke", mock.Anything, mock.Anything, mock.Anything).Once().Return(scheduler.RevokeRevoked, nil)

		_, err := e.coordinator.Cancel(ctx, tx.Id)
		require.NoError(t, err)
		_, err = e.coordinator.Cancel(ctx, tx.Id)
		assert.ErrorIs(t, err, storage.ErrNotCancelable)
	})

	t.Run("Deposit", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))
		w := e.seedWallet(t, 0)
		_, err := e.store.RecordDeposit(ctx, &models.Transaction{
			Id: "deposit-1", WalletId: w.Id, Kind: models.DEPOSIT, Amount: 10, Status: models.SUCCESS,
		})
		require.NoError(t, err)

		_, err = e.coordinator.Cancel(ctx, "deposit-1")
		assert.ErrorIs(t, err, storage.ErrNotCancelable)
	})

	t.Run("Not Found", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))

		_, err := e.coordinator.Cancel(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
	})
}
