package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/domain"
)

// TokenSettings is the immutable issuance configuration.
type TokenSettings struct {
	SigningKey    string
	Issuer        string
	Audience      string
	TTLMinutes    int
	AdminIdentity string
	ClockSkew     time.Duration
}

// TokenSettingsFromConfig extracts issuance settings from the loaded config.
func TokenSettingsFromConfig(cfg config.AuthConfig) TokenSettings {
	return TokenSettings{
		SigningKey:    cfg.JWTSecret,
		Issuer:        cfg.Issuer,
		Audience:      cfg.Audience,
		TTLMinutes:    cfg.TokenTTLMinutes,
		AdminIdentity: cfg.AdminIdentity,
		ClockSkew:     cfg.ClockSkew(),
	}
}

// TokenManager issues HS256 tokens for the static-credential login path and
// validates them on incoming requests.
type TokenManager struct {
	secret        []byte
	issuer        string
	audience      string
	ttl           time.Duration
	adminIdentity string
	skew          time.Duration
	now           func() time.Time
}

// Option customises a TokenManager.
type Option func(*TokenManager)

// WithClock overrides the time source used for issuance and validation.
func WithClock(now func() time.Time) Option {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a manager, refusing to issue unsigned or unbounded tokens.
func NewTokenManager(s TokenSettings, opts ...Option) (*TokenManager, error) {
	if s.SigningKey == "" {
		return nil, &config.ConfigurationError{Field: "signing key", Reason: "must not be empty"}
	}
	if s.TTLMinutes <= 0 {
		return nil, &config.ConfigurationError{Field: "token ttl", Reason: "must be positive"}
	}
	tm := &TokenManager{
		secret:        []byte(s.SigningKey),
		issuer:        s.Issuer,
		audience:      s.Audience,
		ttl:           time.Duration(s.TTLMinutes) * time.Minute,
		adminIdentity: s.AdminIdentity,
		skew:          s.ClockSkew,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes the JWT payload.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// IssueToken signs a token carrying the principal's name and a single role.
// The role is Admin when the name equals the admin identity and User otherwise.
func (tm *TokenManager) IssueToken(p *domain.Principal) (IssuedToken, error) {
	name, ok := domain.NameOf(p)
	if !ok {
		return IssuedToken{}, errors.New("cannot issue token for anonymous principal")
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Name: name,
		Role: tm.roleFor(name),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   domain.Identifier(p),
			Issuer:    tm.issuer,
			Audience:  jwt.ClaimStrings{tm.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{Token: tokenString, ExpiresAt: expiresAt}, nil
}

func (tm *TokenManager) roleFor(name string) string {
	if tm.adminIdentity != "" && name == tm.adminIdentity {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// ParseToken validates signature, issuer, audience and expiry and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithAudience(tm.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tm.skew),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Validate implements TokenValidator for locally issued tokens.
func (tm *TokenManager) Validate(_ context.Context, tokenStr string) (*domain.Principal, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	if name == "" {
		return nil, errors.New("token carries no identity")
	}

	extra := []domain.Claim{}
	if claims.Subject != "" {
		extra = append(extra, domain.Claim{Type: domain.ClaimSubject, Value: claims.Subject})
	}
	if claims.Role != "" {
		extra = append(extra, domain.Claim{Type: domain.ClaimRole, Value: claims.Role})
	}
	return domain.NewPrincipal(name, extra...), nil
}
