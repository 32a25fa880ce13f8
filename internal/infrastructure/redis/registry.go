package redisinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationRegistry stores revoked token IDs in Redis with a TTL, so
// revocation is visible across instances and entries expire with their
// token's natural lifetime.
type RevocationRegistry struct {
	client *redis.Client
}

func NewRevocationRegistry(client *redis.Client) *RevocationRegistry {
	return &RevocationRegistry{client: client}
}

func (r *RevocationRegistry) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation set: %w", err)
	}
	return nil
}

func (r *RevocationRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	return n > 0, nil
}
