package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for back-office authentication
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// AccountClaims are JWT claims for members
type AccountClaims struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// SessionClaims are JWT claims scoped to one diagnostic wizard session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId,omitempty"`
}

// AuthResponse is returned when the results gate is passed
type AuthResponse struct {
	Token   string             `json:"token"`
	Account *Account           `json:"account"`
	Results *DiagnosticResults `json:"results"`
}
