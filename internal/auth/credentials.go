package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/domain"
)

// CredentialVerifier checks a username/password pair and returns the principal
// it identifies, or domain.ErrInvalidCredentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*domain.Principal, error)
}

// StaticVerifier accepts any username from a fixed set combined with one shared
// password. It exists for the demo login only; production deployments must use
// BcryptVerifier or another real credential store.
type StaticVerifier struct {
	users    map[string]struct{}
	password string
}

// NewStaticVerifier builds the demo allow-list verifier.
func NewStaticVerifier(users []string, sharedPassword string) *StaticVerifier {
	set := make(map[string]struct{}, len(users))
	for _, u := range users {
		set[u] = struct{}{}
	}
	return &StaticVerifier{users: set, password: sharedPassword}
}

func (v *StaticVerifier) Verify(_ context.Context, username, password string) (*domain.Principal, error) {
	_, known := v.users[username]
	match := subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	if !known || !match || v.password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return principalFor(username), nil
}

// BcryptVerifier checks passwords against per-user bcrypt hashes.
type BcryptVerifier struct {
	hashes map[string]string
}

// NewBcryptVerifier copies the username to hash map.
func NewBcryptVerifier(hashes map[string]string) *BcryptVerifier {
	copied := make(map[string]string, len(hashes))
	for k, v := range hashes {
		copied[k] = v
	}
	return &BcryptVerifier{hashes: copied}
}

func (v *BcryptVerifier) Verify(_ context.Context, username, password string) (*domain.Principal, error) {
	hash, ok := v.hashes[username]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if err := ComparePassword(hash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return principalFor(username), nil
}

// NewCredentialVerifier selects the verifier configured by AUTH_CREDENTIAL_MODE.
func NewCredentialVerifier(cfg config.AuthConfig) (CredentialVerifier, error) {
	switch cfg.CredentialMode {
	case config.CredentialModeStatic:
		return NewStaticVerifier(cfg.DemoUsers, cfg.DemoPassword), nil
	case config.CredentialModeBcrypt:
		return NewBcryptVerifier(cfg.UserHashes), nil
	default:
		return nil, &config.ConfigurationError{Field: "AUTH_CREDENTIAL_MODE", Reason: fmt.Sprintf("unsupported mode %q", cfg.CredentialMode)}
	}
}

func principalFor(username string) *domain.Principal {
	return domain.NewPrincipal(username, domain.Claim{Type: domain.ClaimSubject, Value: username})
}
