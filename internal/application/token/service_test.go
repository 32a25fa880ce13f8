package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-otp-core/internal/config"
	"github.com/go-otp-core/internal/domain"
	jwtinfra "github.com/go-otp-core/internal/infrastructure/jwt"
	"github.com/go-otp-core/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Record(context.Context, string, map[string]string, string) {}

func newProvider(t *testing.T, accessTTL time.Duration) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    24 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewService(newProvider(t, 15*time.Minute), memory.NewRevocationRegistry(), nopSink{})
}

func TestNewProvider_RequiresDistinctSecrets(t *testing.T) {
	_, err := jwtinfra.NewProvider(&config.Config{
		AccessTokenSecret:  "same",
		RefreshTokenSecret: "same",
	})
	require.Error(t, err)
}

func TestIssuePair_MissingSubject(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.IssuePair(context.Background(), domain.Identity{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestIssuePair_BothTokensVerify(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.IssuePair(context.Background(), domain.Identity{SubjectID: "u1", Roles: []string{"user"}})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	access, err := svc.VerifyAccess(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	refresh, err := svc.VerifyRefresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	assert.Equal(t, "u1", access.SubjectID)
	assert.Equal(t, "u1", refresh.SubjectID)
	assert.Equal(t, []string{"user"}, access.Roles)
}

func TestVerifyAccess_WrongFamilyFails(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.IssuePair(context.Background(), domain.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	_, err = svc.VerifyAccess(context.Background(), pair.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))

	_, err = svc.VerifyRefresh(context.Background(), pair.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyAccess_Tampered(t *testing.T) {
	svc := newTestService(t)

	other, err := jwtinfra.NewProvider(&config.Config{
		AccessTokenSecret:  "a-different-access-secret",
		RefreshTokenSecret: "a-different-refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
	})
	require.NoError(t, err)
	forged, err := other.Sign(domain.Identity{SubjectID: "u1"}, "forged-id", domain.TokenAccess)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(context.Background(), forged)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerifyAccess_Expired(t *testing.T) {
	svc := NewService(newProvider(t, -time.Minute), memory.NewRevocationRegistry(), nopSink{})
	pair, err := svc.IssuePair(context.Background(), domain.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	_, err = svc.VerifyAccess(context.Background(), pair.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestRotate_IssuesFreshPairAndRevokesOld(t *testing.T) {
	provider := newProvider(t, 15*time.Minute)
	svc := NewService(provider, memory.NewRevocationRegistry(), nopSink{})

	pair, err := svc.IssuePair(context.Background(), domain.Identity{SubjectID: "u1", Roles: []string{"user"}})
	require.NoError(t, err)
	oldClaims, err := provider.Verify(pair.RefreshToken, domain.TokenRefresh)
	require.NoError(t, err)

	newPair, err := svc.Rotate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	newClaims, err := provider.Verify(newPair.RefreshToken, domain.TokenRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, oldClaims.TokenID, newClaims.TokenID)

	identity, err := svc.VerifyRefresh(context.Background(), newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.SubjectID)

	// The presented token is burned: neither usable nor rotatable again.
	_, err = svc.VerifyRefresh(context.Background(), pair.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))
	_, err = svc.Rotate(context.Background(), pair.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))
}

func TestRotate_GarbageToken(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Rotate(context.Background(), "not.a.token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestRevoke_AccessToken(t *testing.T) {
	svc := newTestService(t)
	pair, err := svc.IssuePair(context.Background(), domain.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), pair.AccessToken))

	_, err = svc.VerifyAccess(context.Background(), pair.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))

	// The paired refresh token has its own ID and stays valid.
	_, err = svc.VerifyRefresh(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRevoke_ExpiredTokenAccepted(t *testing.T) {
	svc := NewService(newProvider(t, -time.Minute), memory.NewRevocationRegistry(), nopSink{})
	pair, err := svc.IssuePair(context.Background(), domain.Identity{SubjectID: "u1"})
	require.NoError(t, err)

	assert.NoError(t, svc.Revoke(context.Background(), pair.AccessToken))
}

func TestRevoke_GarbageToken(t *testing.T) {
	svc := newTestService(t)
	err := svc.Revoke(context.Background(), "garbage")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}
