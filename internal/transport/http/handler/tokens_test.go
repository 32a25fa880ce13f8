package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-otp-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) IssuePair(ctx context.Context, identity domain.Identity) (*domain.TokenPair, error) {
	args := m.Called(ctx, identity)
	if p, _ := args.Get(0).(*domain.TokenPair); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenService) VerifyAccess(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	args := m.Called(ctx, tokenStr)
	if i, _ := args.Get(0).(*domain.Identity); i != nil {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenService) VerifyRefresh(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	args := m.Called(ctx, tokenStr)
	if i, _ := args.Get(0).(*domain.Identity); i != nil {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenService) Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if p, _ := args.Get(0).(*domain.TokenPair); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenService) Revoke(ctx context.Context, tokenStr string) error {
	return m.Called(ctx, tokenStr).Error(0)
}

func TestIssuePair_MissingSubject(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens", strings.NewReader(`{}`))

	h.IssuePair(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIssuePair_Created(t *testing.T) {
	svc := &mockTokenService{}
	svc.On("IssuePair", mock.Anything, domain.Identity{SubjectID: "u1", Roles: []string{"user"}}).
		Return(&domain.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, nil)

	h := NewTokenHandler(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens",
		strings.NewReader(`{"subject_id":"u1","roles":["user"]}`))

	h.IssuePair(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var pair domain.TokenPair
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pair))
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "r", pair.RefreshToken)
}

func TestRotate_RevokedToken(t *testing.T) {
	svc := &mockTokenService{}
	svc.On("Rotate", mock.Anything, "old-refresh").Return(nil, domain.ErrTokenRevoked)

	h := NewTokenHandler(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/refresh",
		strings.NewReader(`{"refresh_token":"old-refresh"}`))

	h.Rotate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRotate_MissingToken(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/refresh", strings.NewReader(`{}`))

	h.Rotate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevoke_OK(t *testing.T) {
	svc := &mockTokenService{}
	svc.On("Revoke", mock.Anything, "some-token").Return(nil)

	h := NewTokenHandler(svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/revoke",
		strings.NewReader(`{"token":"some-token"}`))

	h.Revoke(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIntrospect_NoIdentityInContext(t *testing.T) {
	h := NewTokenHandler(&mockTokenService{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/tokens/introspect", nil)

	h.Introspect(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
