package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/models"
)

// ListTransactionsByWallet returns the transactions of a wallet, newest first.
func (s *Store) ListTransactionsByWallet(ctx context.Context, walletID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(walletIDIndex),
		KeyConditionExpression: aws.String("wallet_id = :walletID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":walletID": &types.AttributeValueMemberS{Value: walletID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	transactions, err := s.queryTransactions(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by wallet ID: %w", err)
	}
	return transactions, nil
}

// ListStalledWithdrawals returns pending withdrawals that were due before the cutoff, oldest first.
func (s *Store) ListStalledWithdrawals(ctx context.Context, dueBefore time.Time) ([]models.Transaction, error) {
	cutoffAV, err := attributevalue.Marshal(dueBefore.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(pendingByDueIndex),
		KeyConditionExpression: aws.String("#status = :status AND scheduled_for < :cutoff"),
		FilterExpression:       aws.String("kind = :kind"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":cutoff": cutoffAV,
			":kind":   &types.AttributeValueMemberS{Value: string(models.WITHDRAWAL)},
		},
	}

	transactions, err := s.queryTransactions(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stalled withdrawals: %w", err)
	}
	return transactions, nil
}

// ListLedgerEntries returns the most recent ledger entries of a wallet.
func (s *Store) ListLedgerEntries(ctx context.Context, walletID string, limit int32) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerByWalletIndex),
		KeyConditionExpression: aws.String("wallet_id = :walletID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":walletID": &types.AttributeValueMemberS{Value: walletID},
		},
		ScanIndexForward: aws.Bool(false), // Sort by timestamp in descending order
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}

func (s *Store) queryTransactions(ctx context.Context, input *dynamodb.QueryInput) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}

		var page []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		transactions = append(transactions, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return transactions, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
