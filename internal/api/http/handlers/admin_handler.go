package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-service/internal/observability"
)

// AdminHandler serves endpoints restricted to the Admin role.
type AdminHandler struct {
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{metrics: metrics}
}

// Sample GET /api/sample.
func (h *AdminHandler) Sample(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "This is a protected endpoint accessible only to Admins."})
}

// Metrics GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
