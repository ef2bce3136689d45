package service

import (
	"academyhub/internal/apierr"
	"academyhub/internal/config"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/repository"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

const (
	adminTokenTTL   = 12 * time.Hour
	accountTokenTTL = 7 * 24 * time.Hour
)

// AuthService handles admin, member and wizard-session authentication
type AuthService struct {
	adminUsername string
	adminPassword string
	pepper        string
	jwtSecret     []byte
	sessionTTL    time.Duration
	accounts      repository.AccountRepo
	log           *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config, accounts repository.AccountRepo, log *logger.Logger) *AuthService {
	return &AuthService{
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		pepper:        cfg.PasswordPepper,
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    cfg.WizardTTL,
		accounts:      accounts,
		log:           log.With("component", "auth"),
	}
}

// Login validates admin credentials and returns a token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.adminUsername || password != s.adminPassword {
		s.log.Warn("admin login rejected", "username", username)
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", ErrInvalidCredentials)
	}

	adminID := "admin_" + uuid.New().String()[:8]
	token, err := s.sign(&model.AdminClaims{
		AdminID:          adminID,
		RegisteredClaims: registered(adminTokenTTL),
	})
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:   token,
		AdminID: adminID,
	}, nil
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	claims := &model.AdminClaims{}
	if err := s.parse(tokenString, claims); err != nil || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueSessionToken creates a token scoped to one wizard session
func (s *AuthService) IssueSessionToken(sessionID string) (string, error) {
	return s.sign(&model.SessionClaims{
		SessionID:        sessionID,
		RegisteredClaims: registered(s.sessionTTL),
	})
}

// ValidateSessionToken validates a wizard-session JWT
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueAccountToken creates a member token
func (s *AuthService) IssueAccountToken(account *model.Account) (string, error) {
	return s.sign(&model.AccountClaims{
		AccountID:        account.ID,
		Email:            account.Email,
		RegisteredClaims: registered(accountTokenTTL),
	})
}

// ValidateAccountToken validates a member JWT
func (s *AuthService) ValidateAccountToken(tokenString string) (*model.AccountClaims, error) {
	claims := &model.AccountClaims{}
	if err := s.parse(tokenString, claims); err != nil || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Signup creates a member account
func (s *AuthService) Signup(ctx context.Context, req *model.SignupRequest) (*model.Account, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password, s.pepper)
	if err != nil {
		return nil, err
	}
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apierr.Conflict("email_taken", ErrEmailTaken)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// Authenticate checks member credentials
func (s *AuthService) Authenticate(ctx context.Context, req *model.AccountLoginRequest) (*model.Account, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", ErrInvalidCredentials)
	}
	ok, err := VerifyPassword(req.Password, s.pepper, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", ErrInvalidCredentials)
	}
	return account, nil
}

func (s *AuthService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
