package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sikacredit/ussd-api/internal/application/admin"
	"github.com/sikacredit/ussd-api/internal/domain"
)

// AdminHandler handles the administrative side-channel: identity approval,
// suspension, loan decisions, and profile reads.
type AdminHandler struct {
	svc admin.Service
}

func NewAdminHandler(svc admin.Service) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) ApproveIdentity(w http.ResponseWriter, r *http.Request) {
	ident, err := h.svc.ApproveIdentity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

func (h *AdminHandler) SuspendIdentity(w http.ResponseWriter, r *http.Request) {
	ident, err := h.svc.SuspendIdentity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

type loanDecisionRequest struct {
	Decision string `json:"decision"`
}

func (h *AdminHandler) DecideLoan(w http.ResponseWriter, r *http.Request) {
	var req loanDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	loan, err := h.svc.DecideLoan(r.Context(), chi.URLParam(r, "id"), req.Decision)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *AdminHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// statusFor maps domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
