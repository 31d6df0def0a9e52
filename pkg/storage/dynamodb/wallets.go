package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/models"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

// CreateWallet stores the wallet together with a claim item on its owner, so a second wallet
// for the same owner fails the transaction.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	w := *wallet
	w.Reserved = 0
	w.Version = 0

	walletAV, err := attributevalue.MarshalMap(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}
	claimAV, err := attributevalue.MarshalMap(map[string]string{
		"wallet_id":  ownerClaimPrefix + w.OwnerId,
		"owner_id":   w.OwnerId,
		"claimed_by": w.Id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal owner claim: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.WalletsTableName),
					Item:                claimAV,
					ConditionExpression: aws.String("attribute_not_exists(wallet_id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.WalletsTableName),
					Item:                walletAV,
					ConditionExpression: aws.String("attribute_not_exists(wallet_id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if conditionFailedAt(err, 0) {
			return nil, fmt.Errorf("%w: %s", storage.ErrWalletExists, w.OwnerId)
		}
		if conditionFailedAt(err, 1) {
			return nil, fmt.Errorf("wallet with ID %s already exists", w.Id)
		}
		return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
	}

	return &w, nil
}

// GetWallet retrieves a wallet from DynamoDB by its ID.
func (s *Store) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	return s.getWallet(ctx, walletID, false)
}

func (s *Store) getWallet(ctx context.Context, walletID string, consistent bool) (*models.Wallet, error) {
	if isOwnerClaim(walletID) {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, walletID)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.WalletsTableName),
		Key:            stringKey("wallet_id", walletID),
		ConsistentRead: aws.Bool(consistent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, walletID)
	}
	if _, ok := result.Item["claimed_by"]; ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrWalletNotFound, walletID)
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// ListWallets retrieves all wallets from DynamoDB.
func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.WalletsTableName),
		FilterExpression: aws.String("NOT begins_with(wallet_id, :claim)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":claim": &types.AttributeValueMemberS{Value: ownerClaimPrefix},
		},
	}

	var wallets []models.Wallet
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallets table: %w", err)
		}

		var page []models.Wallet
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
		}
		wallets = append(wallets, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return wallets, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// isOwnerClaim reports whether id is the key of an owner claim item rather than a wallet.
func isOwnerClaim(id string) bool {
	return strings.HasPrefix(id, ownerClaimPrefix)
}

// isNotFound reports lookups that should not be retried.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrWalletNotFound) || errors.Is(err, storage.ErrTransactionNotFound)
}
