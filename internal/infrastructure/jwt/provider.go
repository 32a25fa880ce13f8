package jwtinfra

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/go-otp-core/internal/config"
	"github.com/go-otp-core/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields.
type Claims struct {
	SubjectID string   `json:"sub_id"`
	Roles     []string `json:"roles,omitempty"`
	TokenID   string   `json:"token_id"`
	TokenType string   `json:"token_type"`
	jwt.RegisteredClaims
}

// Identity rebuilds the domain identity embedded in the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{SubjectID: c.SubjectID, Roles: c.Roles}
}

// Provider signs and verifies HS256 JWTs. Access and refresh tokens
// use distinct secrets so leaking one does not compromise the other
// token family.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("access and refresh token secrets must be configured")
	}
	if subtle.ConstantTimeCompare([]byte(cfg.AccessTokenSecret), []byte(cfg.RefreshTokenSecret)) == 1 {
		return nil, errors.New("access and refresh token secrets must differ")
	}
	return &Provider{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

// TTL returns the configured lifetime for the given token family.
func (p *Provider) TTL(typ domain.TokenType) time.Duration {
	if typ == domain.TokenRefresh {
		return p.refreshTTL
	}
	return p.accessTTL
}

func (p *Provider) secret(typ domain.TokenType) []byte {
	if typ == domain.TokenRefresh {
		return p.refreshSecret
	}
	return p.accessSecret
}

func (p *Provider) Sign(identity domain.Identity, tokenID string, typ domain.TokenType) (string, error) {
	now := time.Now()
	claims := Claims{
		SubjectID: identity.SubjectID,
		Roles:     identity.Roles,
		TokenID:   tokenID,
		TokenType: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TTL(typ))),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret(typ))
}

// Verify checks signature and expiry with the type-appropriate secret.
// Returns domain.ErrTokenExpired past expiry, domain.ErrTokenInvalid for
// a bad signature, wrong token family, or malformed structure.
func (p *Provider) Verify(tokenStr string, typ domain.TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret(typ), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token past expiry: %w", domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("parse token: %w", domain.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrTokenInvalid)
	}
	if claims.TokenType != string(typ) {
		return nil, fmt.Errorf("wrong token type %q: %w", claims.TokenType, domain.ErrTokenInvalid)
	}
	return claims, nil
}

// DecodeAllowExpired extracts claims from a token whose expiry may have
// passed, trying both family secrets. The signature is still required;
// logout must not let an attacker revoke arbitrary token IDs.
func (p *Provider) DecodeAllowExpired(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	for _, secret := range [][]byte{p.accessSecret, p.refreshSecret} {
		token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil {
			continue
		}
		if claims, ok := token.Claims.(*Claims); ok {
			return claims, nil
		}
	}
	return nil, fmt.Errorf("decode token: %w", domain.ErrTokenInvalid)
}
