package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

// FailWithdrawal marks a pending withdrawal and its task FAILED and releases the reservation.
func (s *Store) FailWithdrawal(ctx context.Context, txID string) error {
	tx, err := s.GetTransaction(ctx, txID)
	if err != nil {
		return err
	}
	if !tx.IsPendingWithdrawal() {
		return storage.ErrTransactionNotPending
	}
	return s.release(ctx, tx, models.FAILED)
}

// MarkTaskFailed marks only the task FAILED while the withdrawal stays pending.
func (s *Store) MarkTaskFailed(ctx context.Context, txID string) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			pendingCheck(s.TransactionsTableName, txID),
			s.taskStatusItem(txID, models.TaskFailed, nowAV),
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if conditionFailedAt(err, 0) {
			return storage.ErrTransactionNotPending
		}
		return fmt.Errorf("failed to mark task failed: %w", err)
	}
	return nil
}

// release finalizes a pending withdrawal without debiting the balance.
func (s *Store) release(ctx context.Context, tx *models.Transaction, status models.TransactionStatus) error {
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			s.transitionItem(tx.Id, status, nowAV),
			{
				Update: &types.Update{
					TableName:           aws.String(s.WalletsTableName),
					Key:                 stringKey("wallet_id", tx.WalletId),
					UpdateExpression:    aws.String("SET reserved = reserved - :amount, version = version + :one"),
					ConditionExpression: aws.String("reserved >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": &types.AttributeValueMemberN{Value: strconv.FormatInt(tx.Amount, 10)},
						":one":    &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			s.taskStatusItem(tx.Id, models.TaskStatusFor(status), nowAV),
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if conditionFailedAt(err, 0) {
			return storage.ErrTransactionNotPending
		}
		return fmt.Errorf("failed to move withdrawal %s to %s: %w", tx.Id, status, err)
	}
	return nil
}

func pendingCheck(table, txID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		ConditionCheck: &types.ConditionCheck{
			TableName:           aws.String(table),
			Key:                 stringKey("id", txID),
			ConditionExpression: aws.String("#status = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			},
		},
	}
}
