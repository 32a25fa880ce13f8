package domain

import "time"

// Channel identifies the delivery mechanism for a verification code.
type Channel string

const (
	ChannelSMS  Channel = "sms"
	ChannelCall Channel = "call"
	ChannelPush Channel = "push"
)

// Valid reports whether c is a recognized delivery channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelSMS, ChannelCall, ChannelPush:
		return true
	}
	return false
}

// VerificationCode is a single-use numeric code issued to a target.
// PK: target, SK: code_id. CodeID is a ULID, so codes for a target sort
// by creation time and a descending query yields the newest first.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type VerificationCode struct {
	CodeID    string            `json:"id" dynamodbav:"code_id"`
	Target    string            `json:"target" dynamodbav:"target"`
	Channel   Channel           `json:"channel" dynamodbav:"channel"`
	Code      string            `json:"-" dynamodbav:"code"`
	Attempts  int               `json:"attempts" dynamodbav:"attempts"`
	Meta      map[string]string `json:"meta,omitempty" dynamodbav:"meta,omitempty"`
	ExpiresAt int64             `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt time.Time         `json:"created_at" dynamodbav:"created_at"`
}

// Expired reports whether the code is invalid at instant now.
// A code is invalid at or after ExpiresAt.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.Unix() >= v.ExpiresAt
}
