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
	"github.com/google/uuid"
)

// SettleWithdrawal performs the final debit of a withdrawal. The transaction, the wallet, the task
// and the ledger entry are written in one DynamoDB transaction guarded by status = PENDING.
func (s *Store) SettleWithdrawal(ctx context.Context, txID string) (*models.Wallet, error) {
	tx, err := s.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if !tx.IsPendingWithdrawal() {
		return nil, storage.ErrTransactionNotPending
	}

	now := time.Now().UTC()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	entryAV, err := attributevalue.MarshalMap(newLedgerEntry(tx, tx.Amount, 0, fmt.Sprintf("Settlement for withdrawal %s", tx.Id)))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	amount := &types.AttributeValueMemberN{Value: strconv.FormatInt(tx.Amount, 10)}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			s.transitionItem(tx.Id, models.SUCCESS, nowAV),
			{
				Update: &types.Update{
					TableName:           aws.String(s.WalletsTableName),
					Key:                 stringKey("wallet_id", tx.WalletId),
					UpdateExpression:    aws.String("SET balance = balance - :amount, reserved = reserved - :amount, version = version + :one"),
					ConditionExpression: aws.String("reserved >= :amount AND balance >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amount,
						":one":    &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			s.taskStatusItem(tx.Id, models.TaskSuccess, nowAV),
			{
				Put: &types.Put{
					TableName: aws.String(s.LedgerTableName),
					Item:      entryAV,
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if conditionFailedAt(err, 0) {
			return nil, storage.ErrTransactionNotPending
		}
		if conditionFailedAt(err, 1) {
			return nil, fmt.Errorf("%w: reservation for %s no longer covers the debit", storage.ErrInsufficientFunds, tx.Id)
		}
		return nil, fmt.Errorf("failed to execute settlement transaction: %w", err)
	}

	return s.getWallet(ctx, tx.WalletId, true)
}

// transitionItem moves a transaction out of PENDING.
func (s *Store) transitionItem(txID string, status models.TransactionStatus, nowAV types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(s.TransactionsTableName),
			Key:                 stringKey("id", txID),
			UpdateExpression:    aws.String("SET #status = :next, updated_at = :now"),
			ConditionExpression: aws.String("#status = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":next":    &types.AttributeValueMemberS{Value: string(status)},
				":pending": &types.AttributeValueMemberS{Value: string(models.PENDING)},
				":now":     nowAV,
			},
		},
	}
}

func (s *Store) taskStatusItem(txID string, status models.TaskStatus, nowAV types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:        aws.String(s.TasksTableName),
			Key:              stringKey("transaction_id", txID),
			UpdateExpression: aws.String("SET #status = :status, updated_at = :now"),
			ExpressionAttributeNames: map[string]string{
				"#status": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(status)},
				":now":    nowAV,
			},
		},
	}
}

func newLedgerEntry(tx *models.Transaction, debit, credit int64, description string) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       uuid.New().String(),
		TransactionID: tx.Id,
		WalletID:      tx.WalletId,
		Debit:         debit,
		Credit:        credit,
		Description:   description,
		Timestamp:     time.Now().UTC(),
	}
}
