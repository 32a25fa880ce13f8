package token

import (
	"context"
	"fmt"
	"time"

	"github.com/go-otp-core/internal/application/audit"
	"github.com/go-otp-core/internal/domain"
	jwtinfra "github.com/go-otp-core/internal/infrastructure/jwt"
	"github.com/go-otp-core/internal/pkg/id"
)

// Registry is the revocation set consulted on every verification.
// Entries should live as long as their token's remaining natural
// lifetime; token IDs are unique per issuance so stale entries can
// never shadow a live token.
type Registry interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Service interface {
	IssuePair(ctx context.Context, identity domain.Identity) (*domain.TokenPair, error)
	VerifyAccess(ctx context.Context, tokenStr string) (*domain.Identity, error)
	VerifyRefresh(ctx context.Context, tokenStr string) (*domain.Identity, error)
	Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Revoke(ctx context.Context, tokenStr string) error
}

type service struct {
	provider *jwtinfra.Provider
	registry Registry
	audit    audit.Sink
}

func NewService(provider *jwtinfra.Provider, registry Registry, sink audit.Sink) Service {
	return &service{provider: provider, registry: registry, audit: sink}
}

// IssuePair signs a fresh access/refresh pair for identity. The two
// tokens carry distinct token IDs and are independently revocable.
func (s *service) IssuePair(ctx context.Context, identity domain.Identity) (*domain.TokenPair, error) {
	if identity.SubjectID == "" {
		return nil, fmt.Errorf("subject_id required: %w", domain.ErrValidation)
	}
	accessID := id.New()
	refreshID := id.New()

	access, err := s.provider.Sign(identity, accessID, domain.TokenAccess)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.provider.Sign(identity, refreshID, domain.TokenRefresh)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	s.audit.Record(ctx, domain.AuditTokensIssued, map[string]string{
		"access_token_id": accessID, "refresh_token_id": refreshID,
	}, identity.SubjectID)
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.provider.TTL(domain.TokenAccess).Seconds()),
	}, nil
}

func (s *service) VerifyAccess(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	claims, err := s.verify(ctx, tokenStr, domain.TokenAccess)
	if err != nil {
		return nil, err
	}
	identity := claims.Identity()
	return &identity, nil
}

func (s *service) VerifyRefresh(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	claims, err := s.verify(ctx, tokenStr, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}
	identity := claims.Identity()
	return &identity, nil
}

func (s *service) verify(ctx context.Context, tokenStr string, typ domain.TokenType) (*jwtinfra.Claims, error) {
	claims, err := s.provider.Verify(tokenStr, typ)
	if err != nil {
		return nil, err
	}
	revoked, err := s.registry.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		// Unknown revocation state is treated as unauthenticated.
		return nil, fmt.Errorf("revocation lookup: %w", domain.ErrTokenInvalid)
	}
	if revoked {
		return nil, fmt.Errorf("token %s: %w", claims.TokenID, domain.ErrTokenRevoked)
	}
	return claims, nil
}

// Rotate exchanges a valid refresh token for a fresh pair and revokes
// the presented token, making refresh tokens single-rotation-use. A
// replayed refresh token fails here with domain.ErrTokenRevoked.
func (s *service) Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.verify(ctx, refreshToken, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Revoke(ctx, claims.TokenID, remainingLifetime(claims)); err != nil {
		return nil, fmt.Errorf("revoke rotated token: %w", err)
	}
	pair, err := s.IssuePair(ctx, claims.Identity())
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, domain.AuditTokensRotated, map[string]string{
		"old_token_id": claims.TokenID,
	}, claims.SubjectID)
	return pair, nil
}

// Revoke adds the token's ID to the registry. An already-expired token
// is accepted; a logout call may arrive after the access token lapsed.
func (s *service) Revoke(ctx context.Context, tokenStr string) error {
	claims, err := s.provider.DecodeAllowExpired(tokenStr)
	if err != nil {
		return err
	}
	if err := s.registry.Revoke(ctx, claims.TokenID, remainingLifetime(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.audit.Record(ctx, domain.AuditTokenRevoked, map[string]string{
		"token_id": claims.TokenID, "token_type": claims.TokenType,
	}, claims.SubjectID)
	return nil
}

// remainingLifetime is how long a revocation entry must outlive the
// token. Expired or expiry-less tokens still get a short marker.
func remainingLifetime(claims *jwtinfra.Claims) time.Duration {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if rem := time.Until(claims.ExpiresAt.Time); rem > ttl {
			ttl = rem
		}
	}
	return ttl
}
