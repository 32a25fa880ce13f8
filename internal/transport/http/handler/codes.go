package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-otp-core/internal/application/otp"
	"github.com/go-otp-core/internal/pkg/validate"
)

// CodeHandler handles verification code endpoints.
type CodeHandler struct {
	svc otp.Service
}

func NewCodeHandler(svc otp.Service) *CodeHandler {
	return &CodeHandler{svc: svc}
}

func (h *CodeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req otp.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Issue(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *CodeHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target" validate:"required"`
		Code   string `json:"code" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	valid, err := h.svc.Verify(r.Context(), req.Target, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Valid: valid})
}
