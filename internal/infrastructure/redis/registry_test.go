package redisinfra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*RevocationRegistry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRevocationRegistry(client), mr
}

func TestRevokeAndLookup(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "t1", time.Hour))

	revoked, err = r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestEntryExpiresWithTTL(t *testing.T) {
	r, mr := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "t1", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNonPositiveTTLStillRecorded(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "t1", 0))

	revoked, err := r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestBackendDownSurfacesError(t *testing.T) {
	r, mr := newRegistry(t)
	mr.Close()

	_, err := r.IsRevoked(context.Background(), "t1")
	assert.Error(t, err)
}
