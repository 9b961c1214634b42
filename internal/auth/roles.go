package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-service/internal/domain"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// RequireRole ensures the authenticated principal holds role.
func RequireRole(role string) fiber.Handler {
	message := strings.ToLower(role) + " required"
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.IsAnonymous() {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !domain.HasRole(principal, role) {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
