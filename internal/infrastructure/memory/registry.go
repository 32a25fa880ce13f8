package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationRegistry is a process-wide set of revoked token IDs.
// State is lost on restart and invisible to other instances; deployments
// running more than one replica must use the Redis registry instead so
// a rotation on one instance revokes the old token everywhere.
type RevocationRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // token ID -> entry expiry
}

func NewRevocationRegistry() *RevocationRegistry {
	r := &RevocationRegistry{revoked: make(map[string]time.Time)}
	go r.cleanup()
	return r
}

// Revoke marks tokenID revoked. The entry is kept for ttl, which should
// cover the token's remaining natural lifetime; after that the token is
// rejected by expiry anyway.
func (r *RevocationRegistry) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	r.revoked[tokenID] = time.Now().Add(ttl)
	r.mu.Unlock()
	return nil
}

func (r *RevocationRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.RLock()
	exp, ok := r.revoked[tokenID]
	r.mu.RUnlock()
	return ok && time.Now().Before(exp), nil
}

// cleanup removes stale entries every 5 minutes. Token IDs are unique
// per issuance, so removing a stale entry can never re-admit a live token.
func (r *RevocationRegistry) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		now := time.Now()
		r.mu.Lock()
		for id, exp := range r.revoked {
			if now.After(exp) {
				delete(r.revoked, id)
			}
		}
		r.mu.Unlock()
	}
}
