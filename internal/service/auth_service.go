package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dodream/blog-api/internal/auth"
	"github.com/dodream/blog-api/internal/config"
	"github.com/dodream/blog-api/internal/domain"
	apperrors "github.com/dodream/blog-api/pkg/util"
)

// invalidCredentials is shared by every login failure so callers cannot tell
// a wrong email from a wrong password.
const invalidCredentials = "invalid email or password"

// AuthService authenticates the single configured administrator and issues tokens.
type AuthService struct {
	adminEmail   string
	adminName    string
	passwordHash string
	isProduction bool
	tokenMgr     *auth.TokenManager
	logger       *zap.Logger
}

// NewAuthService builds the service. When no bcrypt hash is configured the
// plaintext admin password is hashed once here.
func NewAuthService(cfg config.Config, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hash := cfg.Auth.AdminPasswordHash
	if hash == "" {
		var err error
		hash, err = auth.HashPassword(cfg.Auth.AdminPassword, cfg.Auth.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	return &AuthService{
		adminEmail:   cfg.Auth.AdminEmail,
		adminName:    cfg.Auth.AdminName,
		passwordHash: hash,
		isProduction: cfg.App.IsProduction(),
		tokenMgr:     auth.NewTokenManager(cfg.Auth),
		logger:       logger,
	}, nil
}

// Login checks the credential pair and returns a fresh token pair.
func (s *AuthService) Login(_ context.Context, email, password string) (auth.TokenPair, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passwordErr := auth.ComparePassword(s.passwordHash, password)
	if !emailOK || passwordErr != nil {
		s.logger.Warn("admin login rejected")
		return auth.TokenPair{}, apperrors.NewUnauthorized(invalidCredentials)
	}

	pair, err := s.tokenMgr.IssuePair(email)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin logged in")
	return pair, nil
}

// Refresh re-issues a token pair for an email already vouched for by the
// refresh guard. Credentials are not checked again.
func (s *AuthService) Refresh(_ context.Context, email string) (auth.TokenPair, error) {
	pair, err := s.tokenMgr.IssuePair(email)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	s.logger.Debug("token pair refreshed")
	return pair, nil
}

// Me describes the authenticated administrator.
func (s *AuthService) Me(principal domain.Principal) domain.AdminProfile {
	return domain.AdminProfile{ID: principal.UserID, Email: principal.Email, Name: s.adminName}
}

// CookieOptions returns the cookie policy for the configured environment.
func (s *AuthService) CookieOptions() auth.CookieOptions {
	return auth.CookieOptionsFor(s.isProduction)
}

// TokenTTL returns the lifetime used for cookie Max-Age.
func (s *AuthService) TokenTTL(tokenType domain.TokenType) time.Duration {
	return s.tokenMgr.TTL(tokenType)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
