package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, which is what gives verification-code lookups their
// newest-first ordering and token IDs their uniqueness per issuance.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
