package domain

import "time"

// Audit action names recorded by the engines.
const (
	AuditCodeIssued       = "code.issued"
	AuditCodeIssueDenied  = "code.issue_denied"
	AuditCodeSendFailed   = "code.send_failed"
	AuditCodeVerified     = "code.verified"
	AuditCodeVerifyFailed = "code.verify_failed"
	AuditTokensIssued     = "tokens.issued"
	AuditTokensRotated    = "tokens.rotated"
	AuditTokenRevoked     = "token.revoked"
)

// AuditEvent is an append-only record of an engine decision.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type AuditEvent struct {
	EventID   string            `json:"id" dynamodbav:"event_id"`
	Action    string            `json:"action" dynamodbav:"action"`
	ActorID   string            `json:"actor_id,omitempty" dynamodbav:"actor_id,omitempty"`
	Payload   map[string]string `json:"payload,omitempty" dynamodbav:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64             `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
