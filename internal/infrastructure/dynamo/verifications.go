package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-core/internal/domain"
)

// VerificationRepo provides typed DynamoDB operations for issued
// verification codes. PK: target, SK: code_id (ULID).
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

func (r *VerificationRepo) Create(ctx context.Context, v *domain.VerificationCode) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// FindLatestValid returns the most recently created, non-expired code
// for target. Ordering comes from the descending ULID sort key, not
// from storage insertion order; expiry is filtered here because DynamoDB
// TTL deletion is best-effort and can lag by hours.
func (r *VerificationRepo) FindLatestValid(ctx context.Context, target string) (*domain.VerificationCode, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String(fieldTarget + " = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: target},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(10),
	})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, item := range out.Items {
		var v domain.VerificationCode
		if err := attributevalue.UnmarshalMap(item, &v); err != nil {
			return nil, err
		}
		if v.Expired(now) {
			continue
		}
		return &v, nil
	}
	return nil, fmt.Errorf("no valid verification code for target: %w", domain.ErrNotFound)
}

// IncrementAttempts atomically bumps the attempts counter and returns
// the new value. Concurrent verify calls for the same code each get a
// distinct count.
func (r *VerificationRepo) IncrementAttempts(ctx context.Context, target, codeID string) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              compositeKey(fieldTarget, target, fieldCodeID, codeID),
		UpdateExpression: aws.String("ADD " + fieldAttempts + " :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	var attempts int
	if err := attributevalue.Unmarshal(out.Attributes[fieldAttempts], &attempts); err != nil {
		return 0, fmt.Errorf("unmarshal attempts: %w", err)
	}
	return attempts, nil
}

func (r *VerificationRepo) Delete(ctx context.Context, target, codeID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldTarget, target, fieldCodeID, codeID),
	})
	return err
}
