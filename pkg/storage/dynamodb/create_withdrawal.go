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
	"github.com/cenkalti/backoff/v4"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

// maxReserveAttempts bounds the optimistic retries when concurrent writers bump the wallet version.
const maxReserveAttempts = 5

// CreateWithdrawal reserves the amount on the wallet and stores the pending withdrawal with its task.
// The wallet version acts as the lock: a concurrent change makes the transaction fail and the
// available balance is checked again on the fresh read.
func (s *Store) CreateWithdrawal(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	stored := *tx
	stored.Status = models.PENDING

	txAV, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	taskAV, err := attributevalue.MarshalMap(models.DeferredTask{
		TransactionId: stored.Id,
		Status:        models.TaskPending,
		Attempts:      1,
		UpdatedAt:     stored.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	reserve := func() error {
		wallet, err := s.getWallet(ctx, stored.WalletId, true)
		if err != nil {
			if isNotFound(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if wallet.Available() < stored.Amount {
			return backoff.Permanent(storage.ErrInsufficientFunds)
		}

		_, err = s.Client.TransactWriteItems(ctx, s.reserveInput(wallet, &stored, txAV, taskAV))
		if err == nil {
			return nil
		}
		if conditionFailedAt(err, 1) {
			return backoff.Permanent(fmt.Errorf("transaction with ID %s already exists", stored.Id))
		}
		if conditionFailedAt(err, 0) {
			return fmt.Errorf("wallet %s changed concurrently: %w", stored.WalletId, err)
		}
		return backoff.Permanent(fmt.Errorf("failed to execute transaction for withdrawal: %w", err))
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxElapsedTime = 2 * time.Second
	if err := backoff.Retry(reserve, backoff.WithContext(backoff.WithMaxRetries(policy, maxReserveAttempts-1), ctx)); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (s *Store) reserveInput(wallet *models.Wallet, tx *models.Transaction, txAV, taskAV map[string]types.AttributeValue) *dynamodb.TransactWriteItemsInput {
	return &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:           aws.String(s.WalletsTableName),
					Key:                 stringKey("wallet_id", wallet.Id),
					UpdateExpression:    aws.String("SET reserved = reserved + :amount, version = version + :one"),
					ConditionExpression: aws.String("version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":  &types.AttributeValueMemberN{Value: strconv.FormatInt(tx.Amount, 10)},
						":one":     &types.AttributeValueMemberN{Value: "1"},
						":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(wallet.Version, 10)},
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.TasksTableName),
					Item:      taskAV,
				},
			},
		},
	}
}
