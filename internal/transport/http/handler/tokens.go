package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-core/internal/application/token"
	"github.com/go-otp-core/internal/domain"
	"github.com/go-otp-core/internal/pkg/validate"
	"github.com/go-otp-core/internal/transport/http/middleware"
)

// TokenHandler handles token issuance, rotation, revocation and introspection.
type TokenHandler struct {
	svc token.Service
}

func NewTokenHandler(svc token.Service) *TokenHandler {
	return &TokenHandler{svc: svc}
}

func (h *TokenHandler) IssuePair(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubjectID string   `json:"subject_id" validate:"required"`
		Roles     []string `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pair, err := h.svc.IssuePair(r.Context(), domain.Identity{SubjectID: req.SubjectID, Roles: req.Roles})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

func (h *TokenHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token required")
		return
	}
	pair, err := h.svc.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "token required")
		return
	}
	if err := h.svc.Revoke(r.Context(), req.Token); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "token revoked"})
}

// Introspect returns the identity behind the Bearer token validated by
// the auth middleware.
func (h *TokenHandler) Introspect(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, IdentityEnvelope{SubjectID: identity.SubjectID, Roles: identity.Roles})
}
