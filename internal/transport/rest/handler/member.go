package handler

import (
	"academyhub/internal/logger"
	"academyhub/internal/service"
	"academyhub/internal/transport/rest/middleware"
	"net/http"
)

// MemberHandler serves an account's own diagnostics
type MemberHandler struct {
	svc *service.DiagnosticService
	log *logger.Logger
}

func NewMemberHandler(svc *service.DiagnosticService, log *logger.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, log: log}
}

// List handles GET /v1/me/diagnostics
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListForAccount(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Compare handles GET /v1/me/diagnostics/compare
// @Summary Compare the latest diagnostic with the previous one
// @Tags members
// @Produce json
// @Success 200 {object} model.DiagnosticComparison
// @Router /me/diagnostics/compare [get]
func (h *MemberHandler) Compare(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.svc.CompareForAccount(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}
