package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

// RecordDeposit stores a finished deposit. A successful deposit credits the wallet and
// writes its ledger entry in the same transaction.
func (s *Store) RecordDeposit(ctx context.Context, tx *models.Transaction) (*models.Wallet, error) {
	if tx.Kind != models.DEPOSIT || !tx.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: deposit %s must be recorded in a terminal status", models.ErrInvalidStateTransition, tx.Id)
	}
	if isOwnerClaim(tx.WalletId) {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, tx.WalletId)
	}

	txAV, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.TransactionsTableName),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}

	if tx.Status == models.SUCCESS {
		entryAV, err := attributevalue.MarshalMap(newLedgerEntry(tx, 0, tx.Amount, fmt.Sprintf("Deposit %s", tx.Id)))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
		}
		items = append(items,
			types.TransactWriteItem{
				Update: &types.Update{
					TableName:           aws.String(s.WalletsTableName),
					Key:                 stringKey("wallet_id", tx.WalletId),
					UpdateExpression:    aws.String("SET balance = balance + :amount, version = version + :one"),
					ConditionExpression: aws.String(walletExists),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": &types.AttributeValueMemberN{Value: strconv.FormatInt(tx.Amount, 10)},
						":one":    &types.AttributeValueMemberN{Value: "1"},
					},
				},
			},
			types.TransactWriteItem{
				Put: &types.Put{
					TableName: aws.String(s.LedgerTableName),
					Item:      entryAV,
				},
			},
		)
	} else {
		items = append(items, types.TransactWriteItem{
			ConditionCheck: &types.ConditionCheck{
				TableName:           aws.String(s.WalletsTableName),
				Key:                 stringKey("wallet_id", tx.WalletId),
				ConditionExpression: aws.String(walletExists),
			},
		})
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if conditionFailedAt(err, 1) {
			return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, tx.WalletId)
		}
		if conditionFailedAt(err, 0) {
			return nil, fmt.Errorf("transaction with ID %s already exists", tx.Id)
		}
		return nil, fmt.Errorf("failed to execute transaction for deposit: %w", err)
	}

	return s.getWallet(ctx, tx.WalletId, true)
}
