package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/observability"
	"github.com/spec-kit/product-service/internal/policy"
	"github.com/spec-kit/product-service/internal/repository"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// ProductService applies the authorization policy around repository calls.
//
// For read, update and delete the target is loaded before the policy runs, so
// a caller who is denied still learns whether the id exists.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ProductDependencies bundles collaborators for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// ProductInput carries the caller-supplied fields for create and update.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
}

// NewProductService constructs the service.
func NewProductService(deps ProductDependencies) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// ListPublic returns every product for the anonymous catalogue view.
func (s *ProductService) ListPublic(ctx context.Context) ([]domain.Product, error) {
	if err := s.authorize(nil, policy.OpReadPublic, nil); err != nil {
		return nil, err
	}
	return s.products.ListAll(ctx)
}

// List returns every product with full detail.
func (s *ProductService) List(ctx context.Context, principal *domain.Principal) ([]domain.Product, error) {
	if err := s.authorize(principal, policy.OpRead, nil); err != nil {
		return nil, err
	}
	return s.products.ListAll(ctx)
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, principal *domain.Principal, id int64) (*domain.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(principal, policy.OpRead, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Create stores a new product owned by the principal.
func (s *ProductService) Create(ctx context.Context, principal *domain.Principal, input ProductInput) (*domain.Product, error) {
	if err := s.authorize(principal, policy.OpCreate, nil); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Description: input.Description,
		CreatedBy:   policy.OwnerFor(principal),
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventProductCreated, product.ID, domain.Identifier(principal), events.ProductCreatedPayload{
		Name:      product.Name,
		Price:     product.Price.StringFixed(2),
		CreatedBy: product.CreatedBy,
	}))
	return product, nil
}

// Update changes name and price of an existing product. Owner or admin only.
func (s *ProductService) Update(ctx context.Context, principal *domain.Principal, id int64, input ProductInput) error {
	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(principal, policy.OpUpdate, existing); err != nil {
		return err
	}
	if err := validateInput(input); err != nil {
		return err
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Price = input.Price
	if err := s.products.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(id)
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventProductUpdated, id, domain.Identifier(principal), events.ProductUpdatedPayload{
		OldName:  existing.Name,
		NewName:  updated.Name,
		OldPrice: existing.Price.StringFixed(2),
		NewPrice: updated.Price.StringFixed(2),
	}))
	return nil
}

// Delete removes a product. Admin only.
func (s *ProductService) Delete(ctx context.Context, principal *domain.Principal, id int64) error {
	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(principal, policy.OpDelete, existing); err != nil {
		return err
	}
	if err := s.products.Remove(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(id)
		}
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventProductDeleted, id, domain.Identifier(principal), events.ProductDeletedPayload{
		Name:      existing.Name,
		CreatedBy: existing.CreatedBy,
	}))
	return nil
}

func (s *ProductService) find(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) authorize(principal *domain.Principal, op policy.Operation, target *domain.Product) error {
	decision := policy.Evaluate(principal, op, target)
	s.metrics.RecordDecision(string(op), decision.Allow)
	if decision.Allow {
		return nil
	}
	if !decision.Authenticated() {
		return apperrors.NewUnauthorized(decision.Reason)
	}
	s.logger.Info("authorization denied",
		zap.String("operation", string(op)),
		zap.String("principal", domain.Identifier(principal)),
		zap.String("reason", decision.Reason),
	)
	return apperrors.NewForbidden(decision.Reason)
}

func (s *ProductService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// Prices must fit the NUMERIC(12,2) products.price column.
const priceScale = 2

var maxPrice = decimal.New(1, 10)

func validateInput(input ProductInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	switch {
	case input.Price.IsNegative():
		details["price"] = "must be zero or greater"
	case !input.Price.Equal(input.Price.Round(priceScale)):
		details["price"] = "at most 2 decimal places"
	case input.Price.GreaterThanOrEqual(maxPrice):
		details["price"] = "must be less than 10000000000"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details)
	}
	return nil
}

func notFound(id int64) error {
	return apperrors.NewNotFound("product", map[string]any{"id": id})
}
