package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
)

// MaxSQSDelay is the longest delivery delay SQS accepts for a single message.
const MaxSQSDelay = 15 * time.Minute

// SQSAPI is the subset of the SQS client used by this package.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Message is the body of a scheduled SQS message.
type Message struct {
	Handle        string    `json:"handle"`
	TransactionID string    `json:"transaction_id"`
	DueAt         time.Time `json:"due_at"`
}

// ParseMessage decodes the body of a message produced by SQSScheduler.
func ParseMessage(body string) (Message, error) {
	var msg Message
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return Message{}, fmt.Errorf("failed to unmarshal scheduled message: %w", err)
	}
	if msg.TransactionID == "" {
		return Message{}, fmt.Errorf("scheduled message has no transaction id")
	}
	return msg, nil
}

// SQSScheduler implements the Scheduler interface using delayed SQS messages.
// Jobs due beyond MaxSQSDelay are delivered early and must be passed to Forward
// by the consumer until they are due.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
	Logger   *slog.Logger
	Clock    func() time.Time
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string, logger *slog.Logger) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
		Logger:   logger,
		Clock:    time.Now,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// Schedule sends the transaction to the SQS queue with as much delay as SQS allows.
func (s *SQSScheduler) Schedule(ctx context.Context, transactionID string, dueAt time.Time) (string, error) {
	msg := Message{
		Handle:        uuid.New().String(),
		TransactionID: transactionID,
		DueAt:         dueAt.UTC(),
	}
	if err := s.send(ctx, msg); err != nil {
		return "", err
	}
	return msg.Handle, nil
}

// Forward puts a message that arrived before its due time back on the queue.
func (s *SQSScheduler) Forward(ctx context.Context, msg Message) error {
	return s.send(ctx, msg)
}

// IsDue reports whether a received message should be executed now.
func (s *SQSScheduler) IsDue(msg Message) bool {
	return !msg.DueAt.After(s.Clock())
}

// Revoke cannot retract a message from SQS. The executor ignores deliveries for
// transactions that are no longer pending.
func (s *SQSScheduler) Revoke(_ context.Context, handle string, _ bool) (RevokeOutcome, error) {
	s.Logger.Debug("sqs messages cannot be revoked", "handle", handle)
	return RevokeUnknown, nil
}

func (s *SQSScheduler) send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message for SQS: %w", err)
	}

	delay := delaySeconds(msg.DueAt.Sub(s.Clock()))
	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(s.QueueURL),
		MessageBody:  aws.String(string(body)),
		DelaySeconds: delay,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	s.Logger.Debug("sent scheduled message", "handle", msg.Handle, "transaction_id", msg.TransactionID, "delay_seconds", delay)
	return nil
}

func delaySeconds(remaining time.Duration) int32 {
	if remaining <= 0 {
		return 0
	}
	if remaining > MaxSQSDelay {
		remaining = MaxSQSDelay
	}
	return int32(math.Ceil(remaining.Seconds()))
}
