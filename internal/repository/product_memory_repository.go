package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/product-service/internal/domain"
)

type memoryProductRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.Product
	now    func() time.Time
}

// NewMemoryProductRepository returns a process-local store used when no
// database is configured and in tests.
func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{
		items: make(map[int64]domain.Product),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryProductRepository) Insert(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.now()
	product.ID = r.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	r.items[product.ID] = *product
	return nil
}

func (r *memoryProductRepository) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.UpdatedAt = r.now()
	r.items[product.ID] = existing
	product.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *memoryProductRepository) Remove(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, product.ID)
	return nil
}

func (r *memoryProductRepository) ListAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryProductRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}
