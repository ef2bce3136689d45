package handler

import (
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/service"
	"net/http"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
	log     *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, log: log}
}

// Login handles POST /v1/auth/login
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body model.LoginRequest true "credentials"
// @Success 200 {object} model.LoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// MemberLogin handles POST /v1/accounts/login for returning members
// @Summary Member login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body model.AccountLoginRequest true "credentials"
// @Success 200 {object} model.AuthResponse
// @Router /accounts/login [post]
func (h *AuthHandler) MemberLogin(w http.ResponseWriter, r *http.Request) {
	var req model.AccountLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.authSvc.Authenticate(r.Context(), &req)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}
	token, err := h.authSvc.IssueAccountToken(account)
	if err != nil {
		writeAPIError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{Token: token, Account: account})
}
