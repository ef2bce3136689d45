package handler

import (
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/service"
	"academyhub/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// CatalogHandler is the back-office for questions and recommendation rules
type CatalogHandler struct {
	svc *service.CatalogService
	log *logger.Logger
}

func NewCatalogHandler(svc *service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: log}
}

// ListQuestions handles GET /v1/admin/questions
func (h *CatalogHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.svc.Questions(r.Context())
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// CreateQuestion handles POST /v1/admin/questions
// @Summary Create a question
// @Tags admin
// @Accept json
// @Produce json
// @Param body body model.Question true "question"
// @Success 201 {object} model.Question
// @Router /admin/questions [post]
func (h *CatalogHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var q model.Question
	if !decodeJSON(w, r, &q) {
		return
	}
	if err := h.svc.CreateQuestion(r.Context(), &q); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// UpdateQuestion handles PUT /v1/admin/questions/{id}
func (h *CatalogHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var q model.Question
	if !decodeJSON(w, r, &q) {
		return
	}
	if err := h.svc.UpdateQuestion(r.Context(), mux.Vars(r)["id"], &q); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /v1/admin/questions/{id}
func (h *CatalogHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	h.log.Info("question deleted", "id", id, "admin_id", middleware.GetAdminID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// ListRules handles GET /v1/admin/rules
func (h *CatalogHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListRules(r.Context())
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// CreateRule handles POST /v1/admin/rules
func (h *CatalogHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var rule model.RecommendationRule
	if !decodeJSON(w, r, &rule) {
		return
	}
	if err := h.svc.CreateRule(r.Context(), &rule); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// UpdateRule handles PUT /v1/admin/rules/{id}
func (h *CatalogHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var rule model.RecommendationRule
	if !decodeJSON(w, r, &rule) {
		return
	}
	if err := h.svc.UpdateRule(r.Context(), mux.Vars(r)["id"], &rule); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// DeleteRule handles DELETE /v1/admin/rules/{id}
func (h *CatalogHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.svc.DeleteRule(r.Context(), id); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	h.log.Info("rule deleted", "id", id, "admin_id", middleware.GetAdminID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
