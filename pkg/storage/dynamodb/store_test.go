package dynamodb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/scheduled-withdrawals/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/require"
)

func newTestStore(client *mocks.DynamoDBAPI) *Store {
	return New(client, "wallets", "transactions", "tasks", "ledger")
}

// canceledAt builds the error DynamoDB returns when the condition of item index failed.
func canceledAt(index, items int) error {
	reasons := make([]types.CancellationReason, items)
	for i := range reasons {
		reasons[i].Code = aws.String("None")
	}
	reasons[index].Code = aws.String(conditionalCheckFailed)
	return &types.TransactionCanceledException{
		Message:             aws.String("Transaction cancelled"),
		CancellationReasons: reasons,
	}
}

func itemOutput(t *testing.T, v any) *dynamodb.GetItemOutput {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return &dynamodb.GetItemOutput{Item: av}
}

func tableIs(name string) func(*dynamodb.GetItemInput) bool {
	return func(in *dynamodb.GetItemInput) bool {
		return aws.ToString(in.TableName) == name
	}
}
