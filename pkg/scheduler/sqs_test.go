package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/scheduled-withdrawals/pkg/logging"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQSScheduler(client scheduler.SQSAPI, now time.Time) *scheduler.SQSScheduler {
	s := scheduler.NewSQSScheduler(client, "https://sqs.local/queue", logging.Discard())
	s.Clock = func() time.Time { return now }
	return s
}

func TestSQSSchedulerSchedule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		s := newSQSScheduler(mockClient, now)

		var sent *sqs.SendMessageInput
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Once().
			Run(func(args mock.Arguments) { sent = args.Get(1).(*sqs.SendMessageInput) }).
			Return(&sqs.SendMessageOutput{}, nil)

		handle, err := s.Schedule(ctx, "tx-1", now.Add(90*time.Second))
		require.NoError(t, err)
		assert.NotEmpty(t, handle)
		assert.Equal(t, int32(90), sent.DelaySeconds)
		assert.Equal(t, "https://sqs.local/queue", aws.ToString(sent.QueueUrl))

		msg, err := scheduler.ParseMessage(aws.ToString(sent.MessageBody))
		require.NoError(t, err)
		assert.Equal(t, handle, msg.Handle)
		assert.Equal(t, "tx-1", msg.TransactionID)
	})

	t.Run("Delay Is Capped", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		s := newSQSScheduler(mockClient, now)

		mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			return in.DelaySeconds == 900
		})).Once().Return(&sqs.SendMessageOutput{}, nil)

		_, err := s.Schedule(ctx, "tx-1", now.Add(24*time.Hour))
		require.NoError(t, err)
	})

	t.Run("Send Fails", func(t *testing.T) {
		mockClient := mocks.NewSQSAPI(t)
		s := newSQSScheduler(mockClient, now)

		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := s.Schedule(ctx, "tx-1", now.Add(time.Minute))
		assert.ErrorContains(t, err, "failed to send message to SQS")
	})
}

func TestSQSSchedulerForward(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	mockClient := mocks.NewSQSAPI(t)
	s := newSQSScheduler(mockClient, now)

	msg := scheduler.Message{Handle: "h-1", TransactionID: "tx-1", DueAt: now.Add(20 * time.Minute)}
	assert.False(t, s.IsDue(msg))

	mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return in.DelaySeconds == 900
	})).Once().Return(&sqs.SendMessageOutput{}, nil)
	require.NoError(t, s.Forward(context.Background(), msg))

	assert.True(t, s.IsDue(scheduler.Message{DueAt: now}))
}

func TestSQSSchedulerRevoke(t *testing.T) {
	s := newSQSScheduler(mocks.NewSQSAPI(t), time.Now())

	outcome, err := s.Revoke(context.Background(), "h-1", true)
	require.NoError(t, err)
	assert.Equal(t, scheduler.RevokeUnknown, outcome)
}

func TestParseMessage(t *testing.T) {
	_, err := scheduler.ParseMessage(`{"handle": "h-1"}`)
	assert.Error(t, err)

	_, err = scheduler.ParseMessage(`not json`)
	assert.Error(t, err)
}
