package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/product-service/internal/domain"
)

func TestMemoryProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	p := &domain.Product{Name: "Pen", Price: decimal.RequireFromString("1.25"), Description: "Blue", CreatedBy: "alice"}
	require.NoError(t, repo.Insert(ctx, p))
	require.Equal(t, int64(1), p.ID)
	require.False(t, p.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Pen", got.Name)

	update := &domain.Product{ID: p.ID, Name: "Pencil", Price: decimal.RequireFromString("0.99"), Description: "ignored", CreatedBy: "mallory"}
	require.NoError(t, repo.Update(ctx, update))

	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Pencil", got.Name)
	require.True(t, got.Price.Equal(decimal.RequireFromString("0.99")))
	require.Equal(t, "Blue", got.Description)
	require.Equal(t, "alice", got.CreatedBy)

	require.NoError(t, repo.Remove(ctx, got))
	_, err = repo.FindByID(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repo.Remove(ctx, got), domain.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, got), domain.ErrNotFound)
}

func TestMemoryProductRepository_ConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Insert(ctx, &domain.Product{Name: "x", Price: decimal.Zero})
		}()
	}
	wg.Wait()

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 50)
	for i, p := range all {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	n, err := SeedProducts(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	n, err = SeedProducts(ctx, repo)
	require.NoError(t, err)
	require.Zero(t, n)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "Laptop", all[0].Name)
}
