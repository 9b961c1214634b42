package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/domain"
)

// AuthService coordinates the static-credential login flow.
type AuthService struct {
	verifier auth.CredentialVerifier
	tokens   *auth.TokenManager
	throttle *auth.LoginThrottle
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Verifier auth.CredentialVerifier
	Tokens   *auth.TokenManager
	Throttle *auth.LoginThrottle
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		verifier: deps.Verifier,
		tokens:   deps.Tokens,
		throttle: deps.Throttle,
		logger:   logger,
	}
}

// Login verifies credentials and issues a bearer token. Rejected credentials
// return domain.ErrInvalidCredentials and locked-out usernames return
// domain.ErrTooManyAttempts.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.IssuedToken, error) {
	if !s.throttle.Allow(ctx, username) {
		s.logger.Warn("login throttled", zap.String("username", username))
		return auth.IssuedToken{}, domain.ErrTooManyAttempts
	}

	principal, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.throttle.RecordFailure(ctx, username)
			s.logger.Info("login rejected", zap.String("username", username))
			return auth.IssuedToken{}, domain.ErrInvalidCredentials
		}
		return auth.IssuedToken{}, fmt.Errorf("verify credentials: %w", err)
	}
	s.throttle.Reset(ctx, username)

	issued, err := s.tokens.IssueToken(principal)
	if err != nil {
		return auth.IssuedToken{}, err
	}
	s.logger.Info("token issued", zap.String("username", username), zap.Time("expires_at", issued.ExpiresAt))
	return issued, nil
}
