package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/scheduled-withdrawals/pkg/scheduler"
)

// SQSAlerter publishes alerts to an SQS queue consumed by the operations tooling.
// Every alert is also written to the fallback alerter so it is never lost.
type SQSAlerter struct {
	Client   scheduler.SQSAPI
	QueueURL string
	Fallback Alerter
}

// NewSQSAlerter creates a new SQSAlerter.
func NewSQSAlerter(client scheduler.SQSAPI, queueURL string, fallback Alerter) *SQSAlerter {
	return &SQSAlerter{Client: client, QueueURL: queueURL, Fallback: fallback}
}

// Make sure we conform to the interface
var _ Alerter = (*SQSAlerter)(nil)

func (a *SQSAlerter) Alert(ctx context.Context, alert Alert) error {
	if alert.RaisedAt.IsZero() {
		alert.RaisedAt = time.Now().UTC()
	}
	if a.Fallback != nil {
		_ = a.Fallback.Alert(ctx, alert)
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	_, err = a.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(a.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"reason": {DataType: aws.String("String"), StringValue: aws.String(string(alert.Reason))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send alert to SQS: %w", err)
	}
	return nil
}
