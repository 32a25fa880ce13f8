package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CounterRepo implements a fixed-window rate-limit counter on a single
// DynamoDB table. Each (key, window bucket) pair is one row whose hits
// attribute is bumped atomically with ADD; the row's TTL makes windows
// clean themselves up.
type CounterRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCounterRepo(client *dynamodb.Client, tableName string) *CounterRepo {
	return &CounterRepo{client: client, tableName: tableName}
}

// Allow records an event for key and reports whether the count within
// the current window stays at or under max. Denied calls bump the
// counter too; with fixed-window buckets that changes nothing, since
// every count past max denies alike and the next bucket starts at
// zero either way. Errors must be treated as a denial by callers that
// guard issuance (fail closed).
func (r *CounterRepo) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, error) {
	now := time.Now()
	bucket := now.UnixMilli() / window.Milliseconds()
	rowKey := fmt.Sprintf("%s:%d", key, bucket)

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldCounterKey, rowKey),
		UpdateExpression: aws.String(
			"ADD " + fieldHits + " :one SET " + fieldExpiresAt + " = if_not_exists(" + fieldExpiresAt + ", :exp)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":exp": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Add(2*window).Unix())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return false, fmt.Errorf("counter update: %w", err)
	}
	var hits int
	if err := attributevalue.Unmarshal(out.Attributes[fieldHits], &hits); err != nil {
		return false, fmt.Errorf("unmarshal hits: %w", err)
	}
	return hits <= max, nil
}
