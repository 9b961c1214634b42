package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/domain"
)

func newAuthService(t *testing.T, throttle *auth.LoginThrottle) (*AuthService, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager(auth.TokenSettings{
		SigningKey:    "service-test-signing-key-0123456789",
		Issuer:        "https://issuer.test",
		Audience:      "https://audience.test",
		TTLMinutes:    30,
		AdminIdentity: "admin",
	})
	require.NoError(t, err)
	svc := NewAuthService(AuthDependencies{
		Verifier: auth.NewStaticVerifier([]string{"user", "admin"}, "password"),
		Tokens:   tokens,
		Throttle: throttle,
		Logger:   zap.NewNop(),
	})
	return svc, tokens
}

func decodeRole(t *testing.T, token string) string {
	t.Helper()
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	role, _ := claims["role"].(string)
	return role
}

func TestAuthService_LoginScenarios(t *testing.T) {
	svc, tokens := newAuthService(t, nil)
	ctx := context.Background()

	issued, err := svc.Login(ctx, "admin", "password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, decodeRole(t, issued.Token))
	require.WithinDuration(t, time.Now().Add(30*time.Minute), issued.ExpiresAt, 5*time.Second)

	issued, err = svc.Login(ctx, "user", "password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, decodeRole(t, issued.Token))

	p, err := tokens.Validate(ctx, issued.Token)
	require.NoError(t, err)
	require.Equal(t, "user", domain.Identifier(p))

	_, err = svc.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ThrottlesRepeatedFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	throttle := auth.NewLoginThrottle(client, config.ThrottleConfig{MaxAttempts: 2, LockoutSeconds: 60}, zap.NewNop())

	svc, _ := newAuthService(t, throttle)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "admin", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	_, err := svc.Login(ctx, "admin", "password")
	require.ErrorIs(t, err, domain.ErrTooManyAttempts)

	mr.FastForward(61 * time.Second)
	_, err = svc.Login(ctx, "admin", "password")
	require.NoError(t, err)
}
