package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-service/internal/api/http/handlers"
	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Product routes only require a valid
// bearer token here; ownership and role rules are applied by the service.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/login", cfg.Auth.Login)

	// Registered before /products/:id so "public" is not parsed as an id.
	api.Get("/products/public", cfg.Products.ListPublic)

	authn := cfg.AuthMiddleware.Handle
	api.Get("/products", authn, cfg.Products.List)
	api.Post("/products", authn, cfg.Products.Create)
	api.Get("/products/:id", authn, cfg.Products.Get)
	api.Put("/products/:id", authn, cfg.Products.Update)
	api.Delete("/products/:id", authn, cfg.Products.Delete)

	adminOnly := auth.RequireRole(domain.RoleAdmin)
	api.Get("/sample", authn, adminOnly, cfg.Admin.Sample)
	api.Get("/admin/metrics", authn, adminOnly, cfg.Admin.Metrics)
}
