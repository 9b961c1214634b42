package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/product-service/internal/domain"
)

// SeedProducts inserts the sample catalogue when the store is empty and
// returns how many rows were added.
func SeedProducts(ctx context.Context, repo ProductRepository) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	seeds := domain.SeedProducts()
	for i := range seeds {
		if err := repo.Insert(ctx, &seeds[i]); err != nil {
			return i, fmt.Errorf("seed %s: %w", seeds[i].Name, err)
		}
	}
	return len(seeds), nil
}
