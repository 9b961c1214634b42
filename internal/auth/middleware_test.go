package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/domain"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

type stubValidator struct {
	principal *domain.Principal
	err       error
}

func (s stubValidator) Validate(context.Context, string) (*domain.Principal, error) {
	return s.principal, s.err
}

func newMiddlewareApp(v TokenValidator, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	mw := NewAuthMiddleware(v, zap.NewNop())
	handlers := append([]fiber.Handler{mw.Handle}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(domain.Identifier(p))
	})
	app.Get("/", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	alice := domain.NewPrincipal("alice", domain.Claim{Type: domain.ClaimRole, Value: domain.RoleUser})

	cases := []struct {
		name      string
		header    string
		validator TokenValidator
		status    int
	}{
		{name: "missing header", validator: stubValidator{principal: alice}, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", validator: stubValidator{principal: alice}, status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", validator: stubValidator{principal: alice}, status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer abc", validator: stubValidator{err: errors.New("bad")}, status: http.StatusUnauthorized},
		{name: "valid", header: "bearer abc", validator: stubValidator{principal: alice}, status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newMiddlewareApp(tc.validator)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	user := domain.NewPrincipal("bob", domain.Claim{Type: domain.ClaimRole, Value: domain.RoleUser})
	admin := domain.NewPrincipal("root", domain.Claim{Type: domain.ClaimRole, Value: domain.RoleAdmin})

	for _, tc := range []struct {
		name      string
		principal *domain.Principal
		status    int
	}{
		{name: "user forbidden", principal: user, status: http.StatusForbidden},
		{name: "admin allowed", principal: admin, status: http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			app := newMiddlewareApp(stubValidator{principal: tc.principal}, RequireRole(domain.RoleAdmin))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer abc")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
