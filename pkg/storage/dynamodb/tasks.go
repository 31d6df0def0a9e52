package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

// AttachTaskHandle records the scheduler handle on a task.
func (s *Store) AttachTaskHandle(ctx context.Context, txID, handle string) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.TasksTableName),
		Key:                 stringKey("transaction_id", txID),
		UpdateExpression:    aws.String("SET handle = :handle, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(transaction_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":handle": &types.AttributeValueMemberS{Value: handle},
			":now":    nowAV,
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
		}
		return fmt.Errorf("failed to attach task handle: %w", err)
	}
	return nil
}

// RescheduleTask points the task at a new scheduler entry and counts the attempt,
// provided the withdrawal is still pending.
func (s *Store) RescheduleTask(ctx context.Context, txID, handle string) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			pendingCheck(s.TransactionsTableName, txID),
			{
				Update: &types.Update{
					TableName:           aws.String(s.TasksTableName),
					Key:                 stringKey("transaction_id", txID),
					UpdateExpression:    aws.String("SET handle = :handle, #status = :pending, attempts = attempts + :one, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(transaction_id)"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":handle":  &types.AttributeValueMemberS{Value: handle},
						":pending": &types.AttributeValueMemberS{Value: string(models.TaskPending)},
						":one":     &types.AttributeValueMemberN{Value: "1"},
						":now":     nowAV,
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if conditionFailedAt(err, 0) {
			return storage.ErrTransactionNotPending
		}
		if conditionFailedAt(err, 1) {
			return fmt.Errorf("%w: %s", storage.ErrTaskNotFound, txID)
		}
		return fmt.Errorf("failed to reschedule task: %w", err)
	}
	return nil
}
