package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/product-service/internal/api/dto"
	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/service"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// ProductsHandler manages product endpoints.
type ProductsHandler struct {
	service *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{service: productService}
}

// ListPublic GET /api/products/public.
func (h *ProductsHandler) ListPublic(c *fiber.Ctx) error {
	products, err := h.service.ListPublic(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PublicProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewPublicProductResponse(&products[i]))
	}
	return c.JSON(items)
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	products, err := h.service.List(c.UserContext(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return c.JSON(items)
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	product, err := h.service.Get(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Create POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	input, err := parseProductRequest(c)
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	product, err := h.service.Create(c.UserContext(), principal, input)
	if err != nil {
		return err
	}
	c.Location(fmt.Sprintf("/api/products/%d", product.ID))
	return c.Status(http.StatusCreated).JSON(dto.NewProductResponse(product))
}

// Update PUT /api/products/:id. A malformed body is rejected before the
// product is looked up, so an unknown id with a bad body answers 400.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	input, err := parseProductRequest(c)
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.service.Update(c.UserContext(), principal, id, input); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.service.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid product id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func parseProductRequest(c *fiber.Ctx) (service.ProductInput, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ProductInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Price == nil {
		return service.ProductInput{}, apperrors.NewValidationError("invalid product", map[string]any{"price": "required"})
	}
	return service.ProductInput{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
	}, nil
}
