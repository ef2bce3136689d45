package handler

import (
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/service"
	"academyhub/internal/transport/rest/middleware"
	"academyhub/internal/wizard"
	"net/http"

	"github.com/gorilla/mux"
)

// answerRequest carries a number, a string or a list of option values
type answerRequest struct {
	Value model.AnswerValue `json:"value"`
}

// sessionView adds the question under the cursor so a reloaded client can resume
type sessionView struct {
	*wizard.Session
	CurrentQuestionID string `json:"currentQuestionId,omitempty"`
}

func viewOf(sess *wizard.Session) sessionView {
	v := sessionView{Session: sess}
	if sess.State == wizard.StateQuestions {
		v.CurrentQuestionID = sess.CurrentQuestionID()
	}
	return v
}

// sessionID is the session the token was issued for; RequireSession has
// already matched it against the path
func sessionID(r *http.Request) string {
	return middleware.GetSessionID(r.Context())
}

// DiagnosticHandler serves the public wizard endpoints
type DiagnosticHandler struct {
	svc *service.DiagnosticService
	log *logger.Logger
}

func NewDiagnosticHandler(svc *service.DiagnosticService, log *logger.Logger) *DiagnosticHandler {
	return &DiagnosticHandler{svc: svc, log: log}
}

// Start handles POST /v1/diagnostics/sessions
// @Summary Start a diagnostic
// @Tags diagnostics
// @Produce json
// @Success 201 {object} service.StartResponse
// @Router /diagnostics/sessions [post]
func (h *DiagnosticHandler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Start(r.Context())
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/diagnostics/sessions/{id}
func (h *DiagnosticHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), sessionID(r))
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// Abandon handles DELETE /v1/diagnostics/sessions/{id}
func (h *DiagnosticHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Abandon(r.Context(), sessionID(r)); err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitLead handles PUT /v1/diagnostics/sessions/{id}/lead
// @Summary Submit contact details
// @Tags diagnostics
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param body body model.Contact true "contact"
// @Router /diagnostics/sessions/{id}/lead [put]
func (h *DiagnosticHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var contact model.Contact
	if !decodeJSON(w, r, &contact) {
		return
	}
	sess, err := h.svc.SubmitLead(r.Context(), sessionID(r), contact)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// Answer handles PUT /v1/diagnostics/sessions/{id}/answers/{questionId}
func (h *DiagnosticHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.svc.Answer(r.Context(), sessionID(r), mux.Vars(r)["questionId"], req.Value)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// Back handles POST /v1/diagnostics/sessions/{id}/back
func (h *DiagnosticHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Back(r.Context(), sessionID(r))
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// Complete handles POST /v1/diagnostics/sessions/{id}/complete
// @Summary Score and store the diagnostic
// @Tags diagnostics
// @Produce json
// @Param id path string true "session id"
// @Router /diagnostics/sessions/{id}/complete [post]
func (h *DiagnosticHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Complete(r.Context(), sessionID(r))
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// Signup handles POST /v1/diagnostics/sessions/{id}/signup
func (h *DiagnosticHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.svc.Signup(r.Context(), sessionID(r), &req)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /v1/diagnostics/sessions/{id}/login
func (h *DiagnosticHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.AccountLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.svc.Login(r.Context(), sessionID(r), &req)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Results handles GET /v1/diagnostics/sessions/{id}/results
// @Summary Diagnostic results
// @Tags diagnostics
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} model.DiagnosticResults
// @Router /diagnostics/sessions/{id}/results [get]
func (h *DiagnosticHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Results(r.Context(), sessionID(r))
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
