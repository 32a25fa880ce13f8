package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldTarget     = "target"
	fieldCodeID     = "code_id"
	fieldAttempts   = "attempts"
	fieldExpiresAt  = "expires_at"
	fieldCounterKey = "counter_key"
	fieldHits       = "hits"
)
