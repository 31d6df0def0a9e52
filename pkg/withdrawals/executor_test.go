package withdrawals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/scheduled-withdrawals/pkg/alerts"
	"github.com/chris/scheduled-withdrawals/pkg/gateway"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler/mocks"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scheduleWithdrawal opens a withdrawal of amount on a wallet holding balance.
func scheduleWithdrawal(t *testing.T, e *env, sched *mocks.Scheduler, balance, amount int64) (*models.Wallet, *models.Transaction) {
	t.Helper()
	w := e.seedWallet(t, balance)
	sched.On("Schedule", mock.Anything, mock.Anything, mock.Anything).Once().Return("handle-1", nil)
	tx, err := e.service.Schedule(context.Background(), w.Id, amount, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return w, tx
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("Gateway Success Settles", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		e.gateway.On("Transfer", mock.Anything, gateway.Request{WalletID: w.Id, Amount: 1000, Type: gateway.Withdrawal}).
			Once().Return(&gateway.Response{StatusCode: 200, Status: 200}, nil)

		require.NoError(t, e.executor.Execute(ctx, tx.Id))

		assert.Equal(t, int64(500), e.wallet(t, w.Id).Balance)
		assert.Equal(t, models.SUCCESS, e.transaction(t, tx.Id).Status)
		assert.Equal(t, models.TaskSuccess, e.task(t, tx.Id).Status)

		balance, err := e.ledger.Balance(ctx, w.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(500), balance)
	})

	t.Run("Re-invocation Is A No-op", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		e.gateway.On("Transfer", mock.Anything, mock.Anything).
			Once().Return(&gateway.Response{StatusCode: 200, Status: 200}, nil)

		require.NoError(t, e.executor.Execute(ctx, tx.Id))
		require.NoError(t, e.executor.Execute(ctx, tx.Id))

		assert.Equal(t, int64(500), e.wallet(t, w.Id).Balance)
		e.gateway.AssertNumberOfCalls(t, "Transfer", 1)
	})

	t.Run("Gateway Refusal Fails Withdrawal", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		e.gateway.On("Transfer", mock.Anything, mock.Anything).
			Once().Return(nil, &gateway.HTTPError{StatusCode: 422, Body: "account closed"})

		require.NoError(t, e.executor.Execute(ctx, tx.Id))

		got := e.wallet(t, w.Id)
		assert.Equal(t, int64(1500), got.Balance)
		assert.Equal(t, int64(1500), got.Available())
		assert.Equal(t, models.FAILED, e.transaction(t, tx.Id).Status)
		assert.Equal(t, models.TaskFailed, e.task(t, tx.Id).Status)
	})

	t.Run("Non-success Body Fails Withdrawal", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		_, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		e.gateway.On("Transfer", mock.Anything, mock.Anything).
			Once().Return(&gateway.Response{StatusCode: 200, Status: 500}, nil)

		require.NoError(t, e.executor.Execute(ctx, tx.Id))
		assert.Equal(t, models.FAILED, e.transaction(t, tx.Id).Status)
	})

	t.Run("Gateway Timeout Leaves Withdrawal Pending", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		timeout := &gateway.TimeoutError{URL: "http://gateway", Timeout: 10 * time.Second, Err: context.DeadlineExceeded}
		e.gateway.On("Transfer", mock.Anything, mock.Anything).Once().Return(nil, timeout)
		e.alerter.On("Alert", mock.Anything, mock.MatchedBy(func(a alerts.Alert) bool {
			return a.Reason == alerts.GatewayUnreachable && a.TransactionID == tx.Id
		})).Once().Return(nil)

		err := e.executor.Execute(ctx, tx.Id)
		var timeoutErr *gateway.TimeoutError
		require.True(t, errors.As(err, &timeoutErr))

		assert.Equal(t, models.PENDING, e.transaction(t, tx.Id).Status)
		assert.Equal(t, models.TaskFailed, e.task(t, tx.Id).Status)
		got := e.wallet(t, w.Id)
		assert.Equal(t, int64(1500), got.Balance)
		assert.Equal(t, int64(500), got.Available())
	})

	t.Run("Shutdown During Gateway Call Leaves Withdrawal Unresolved", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		execCtx, stop := context.WithCancel(ctx)
		e.gateway.On("Transfer", mock.Anything, mock.Anything).Once().
			Run(func(mock.Arguments) { stop() }).
			Return(nil, &gateway.UnexpectedError{Err: context.Canceled})
		e.alerter.On("Alert", mock.Anything, mock.MatchedBy(func(a alerts.Alert) bool {
			return a.Reason == alerts.GatewayUnreachable && a.TransactionID == tx.Id
		})).Once().Return(nil)

		err := e.executor.Execute(execCtx, tx.Id)
		assert.True(t, gateway.IsTransportFailure(err))
		assert.NotErrorIs(t, err, ErrRevoked)

		assert.Equal(t, models.PENDING, e.transaction(t, tx.Id).Status)
		assert.Equal(t, models.TaskFailed, e.task(t, tx.Id).Status)
		assert.Equal(t, int64(500), e.wallet(t, w.Id).Available())
	})

	t.Run("Accepted Transfer Settles After Deadline", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		execCtx, stop := context.WithCancel(ctx)
		e.gateway.On("Transfer", mock.Anything, mock.Anything).Once().
			Run(func(mock.Arguments) { stop() }).
			Return(&gateway.Response{StatusCode: 200, Status: 200}, nil)

		require.NoError(t, e.executor.Execute(execCtx, tx.Id))
		assert.Equal(t, models.SUCCESS, e.transaction(t, tx.Id).Status)
		assert.Equal(t, int64(500), e.wallet(t, w.Id).Balance)
	})

	t.Run("Revoked During Gateway Call Leaves Transaction To Canceler", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		_, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)

		execCtx, revoke := context.WithCancelCause(ctx)
		e.gateway.On("Transfer", mock.Anything, mock.Anything).Once().
			Run(func(mock.Arguments) { revoke(ErrRevoked) }).
			Return(nil, &gateway.UnexpectedError{Err: context.Canceled})

		err := e.executor.Execute(execCtx, tx.Id)
		assert.ErrorIs(t, err, ErrRevoked)

		assert.Equal(t, models.PENDING, e.transaction(t, tx.Id).Status)
		assert.Equal(t, models.TaskPending, e.task(t, tx.Id).Status)
		e.alerter.AssertNotCalled(t, "Alert", mock.Anything, mock.Anything)
	})

	t.Run("Canceled Withdrawal Is Not Executed", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)
		sched.On("Revoke", mock.Anything, "handle-1", true).Once().Return(scheduler.RevokeUnknown, nil)

		_, err := e.coordinator.Cancel(ctx, tx.Id)
		require.NoError(t, err)

		require.NoError(t, e.executor.Execute(ctx, tx.Id))
		e.gateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
		assert.Equal(t, int64(1500), e.wallet(t, w.Id).Balance)
	})

	t.Run("Canceled While Gateway Call In Flight", func(t *testing.T) {
		sched := mocks.NewScheduler(t)
		e := newEnv(t, sched)
		w, tx := scheduleWithdrawal(t, e, sched, 1500, 1000)
		sched.On("Revoke", mock.Anything, "handle-1", true).Once().Return(scheduler.RevokeAlreadyRunning, nil)

		e.gateway.On("Transfer", mock.Anything, mock.Anything).Once().
			Run(func(mock.Arguments) {
				_, err := e.coordinator.Cancel(ctx, tx.Id)
				require.NoError(t, err)
			}).
			Return(&gateway.Response{StatusCode: 200, Status: 200}, nil)
		e.alerter.On("Alert", mock.Anything, mock.MatchedBy(func(a alerts.Alert) bool {
			return a.Reason == alerts.SettlementConflict
		})).Once().Return(nil)

		require.NoError(t, e.executor.Execute(ctx, tx.Id))
		assert.Equal(t, models.CANCELED, e.transaction(t, tx.Id).Status)
		assert.Equal(t, int64(1500), e.wallet(t, w.Id).Balance)
	})

	t.Run("Transaction Not Found", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))

		err := e.executor.Execute(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
	})

	t.Run("Deposit Is Rejected", func(t *testing.T) {
		e := newEnv(t, mocks.NewScheduler(t))
		w := e.seedWallet(t, 0)
		_, err := e.store.RecordDeposit(ctx, &models.Transaction{
			Id: "deposit-1", WalletId: w.Id, Kind: models.DEPOSIT, Amount: 10, Status: models.SUCCESS,
		})
		require.NoError(t, err)

		err = e.executor.Execute(ctx, "deposit-1")
		assert.ErrorIs(t, err, ErrNotWithdrawal)
	})
}
