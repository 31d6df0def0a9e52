package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/storage"
)

const (
	walletIDIndex       = "wallet_id-created_at-index"
	pendingByDueIndex   = "status-scheduled_for-index"
	ledgerByWalletIndex = "wallet_id-timestamp-index"

	// ownerClaimPrefix marks the items in the wallets table that reserve an owner ID.
	ownerClaimPrefix = "owner#"
	// walletExists matches wallet items and never owner claims.
	walletExists = "attribute_exists(wallet_id) AND attribute_not_exists(claimed_by)"

	conditionalCheckFailed = "ConditionalCheckFailed"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
// DynamoDB has no row locks: every status change is a conditional write on status = PENDING,
// and reservations are guarded by the wallet version.
type Store struct {
	Client                DynamoDBAPI
	WalletsTableName      string
	TransactionsTableName string
	TasksTableName        string
	LedgerTableName       string
}

// New creates a new Store.
func New(client DynamoDBAPI, walletsTable, transactionsTable, tasksTable, ledgerTable string) *Store {
	return &Store{
		Client:                client,
		WalletsTableName:      walletsTable,
		TransactionsTableName: transactionsTable,
		TasksTableName:        tasksTable,
		LedgerTableName:       ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// conditionFailedAt reports whether a transactional write was canceled because the
// condition of the item at index did not hold.
func conditionFailedAt(err error, index int) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || len(tce.CancellationReasons) <= index {
		return false
	}
	return aws.ToString(tce.CancellationReasons[index].Code) == conditionalCheckFailed
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{name: &types.AttributeValueMemberS{Value: value}}
}
