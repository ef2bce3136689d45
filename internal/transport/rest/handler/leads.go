package handler

import (
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"academyhub/internal/service"
	"academyhub/internal/transport/rest/middleware"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// LeadHandler serves the sales views: lead queue, listings, diagnostic detail and stats
type LeadHandler struct {
	leads       *service.LeadService
	diagnostics *service.DiagnosticService
	stats       *service.StatsService
	log         *logger.Logger
}

func NewLeadHandler(leads *service.LeadService, diagnostics *service.DiagnosticService, stats *service.StatsService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, diagnostics: diagnostics, stats: stats, log: log}
}

// Queue handles GET /v1/admin/leads/queue?limit=
// @Summary Leads by commitment
// @Tags admin
// @Produce json
// @Param limit query int false "max entries"
// @Router /admin/leads/queue [get]
func (h *LeadHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	queue, err := h.leads.Queue(r.Context(), limit)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

// Dismiss handles DELETE /v1/admin/leads/queue/{id}
func (h *LeadHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())
	if err := h.leads.Dismiss(r.Context(), mux.Vars(r)["id"], adminID); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/admin/leads?temperature=&retake_due=&limit=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 100)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	filter := repository.LeadFilter{
		Temperature: model.Temperature(r.URL.Query().Get("temperature")),
		Limit:       int64(limit),
	}
	if raw := r.URL.Query().Get("retake_due"); raw != "" {
		due, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "retake_due must be true or false")
			return
		}
		filter.RetakeDue = &due
	}
	leads, err := h.leads.List(r.Context(), filter)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Diagnostic handles GET /v1/admin/diagnostics/{id}
func (h *LeadHandler) Diagnostic(w http.ResponseWriter, r *http.Request) {
	view, err := h.diagnostics.AdminView(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Stats handles GET /v1/admin/diagnostics/stats
// @Summary Diagnostic statistics
// @Tags admin
// @Produce json
// @Success 200 {object} model.DiagnosticStats
// @Router /admin/diagnostics/stats [get]
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RebuildStats handles POST /v1/admin/diagnostics/stats/rebuild
func (h *LeadHandler) RebuildStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Rebuild(r.Context())
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
