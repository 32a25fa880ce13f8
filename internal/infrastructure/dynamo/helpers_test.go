package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	key := strKey(fieldCounterKey, "verify:+15550001000:123")
	require.Len(t, key, 1)
	av, ok := key[fieldCounterKey].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "verify:+15550001000:123", av.Value)
}

func TestCompositeKey(t *testing.T) {
	key := compositeKey(fieldTarget, "+15550001000", fieldCodeID, "01HZXYW0000000000000000000")
	require.Len(t, key, 2)

	pk, ok := key[fieldTarget].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "+15550001000", pk.Value)

	sk, ok := key[fieldCodeID].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "01HZXYW0000000000000000000", sk.Value)
}
