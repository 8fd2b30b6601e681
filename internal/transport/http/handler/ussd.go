package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sikacredit/ussd-api/internal/application/dialog"
	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/pkg/validate"
)

// USSDHandler handles the gateway callback endpoint.
type USSDHandler struct {
	svc dialog.Service
}

func NewUSSDHandler(svc dialog.Service) *USSDHandler { return &USSDHandler{svc: svc} }

// Callback decodes one gateway request, advances the session by one dialog
// transition, and writes the next prompt. Engine failures are already mapped
// to a terminal message, so this endpoint always answers 200 once the body
// parses.
func (h *USSDHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var req domain.USSDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp := h.svc.Handle(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}
