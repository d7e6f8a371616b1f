package fakeproductrepo

import (
	"context"
	"testing"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/products"
	"github.com/stretchr/testify/require"
)

func seededRepo() *FakeProductRepo {
	repo := NewFakeProductRepo()
	repo.Add(&products.Product{ID: "p1", Title: "Gaming Laptop", Price: 1500, Sale: 10, CategoryID: "cat-computers"})
	repo.Add(&products.Product{ID: "p2", Title: "Office Laptop", Price: 800, Sale: 25, CategoryID: "cat-computers"})
	repo.Add(&products.Product{ID: "p3", Title: "Mechanical Keyboard", Price: 120, Sale: 5, CategoryID: "cat-accessories"})
	repo.Add(&products.Product{ID: "p4", Title: "Wireless Mouse", Price: 45, Sale: 50, CategoryID: "cat-accessories"})
	repo.Add(&products.Product{ID: "p5", Title: "USB-C Hub", Price: 60, Sale: 0, CategoryID: "cat-accessories"})
	return repo
}

func TestFakeProductRepo_Get(t *testing.T) {
	repo := seededRepo()
	ctx := context.Background()

	product, err := repo.Get(ctx, "p3")
	require.NoError(t, err)
	require.Equal(t, "Mechanical Keyboard", product.Title)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFakeProductRepo_List(t *testing.T) {
	repo := seededRepo()
	ctx := context.Background()

	t.Run("title match is case-insensitive substring", func(t *testing.T) {
		result, err := repo.List(ctx, products.ListParams{Title: "laptop"})
		require.NoError(t, err)
		require.Equal(t, 2, result.Pagination.Total)
		for _, product := range result.Payload {
			require.Contains(t, product.Title, "Laptop")
		}
	})

	t.Run("sale range filters inclusively", func(t *testing.T) {
		result, err := repo.List(ctx, products.ListParams{SaleGte: 10, SaleLte: 25})
		require.NoError(t, err)
		require.Equal(t, 2, result.Pagination.Total)
	})

	t.Run("category filter matches any listed id", func(t *testing.T) {
		result, err := repo.List(ctx, products.ListParams{CategoryIDs: []string{"cat-accessories"}})
		require.NoError(t, err)
		require.Equal(t, 3, result.Pagination.Total)
	})

	t.Run("multi-field sort honors per-field order", func(t *testing.T) {
		result, err := repo.List(ctx, products.ListParams{
			CategoryIDs: []string{"cat-accessories"},
			Sort:        []string{"sale", "price"},
			Order:       []string{"desc", "asc"},
		})
		require.NoError(t, err)
		require.Len(t, result.Payload, 3)
		require.Equal(t, "Wireless Mouse", result.Payload[0].Title)
		require.Equal(t, "Mechanical Keyboard", result.Payload[1].Title)
		require.Equal(t, "USB-C Hub", result.Payload[2].Title)
	})

	t.Run("pagination facet reports ceil(total/limit)", func(t *testing.T) {
		result, err := repo.List(ctx, products.ListParams{Page: 2, Limit: 2})
		require.NoError(t, err)
		require.Equal(t, 5, result.Pagination.Total)
		require.Equal(t, 2, result.Pagination.Page)
		require.Equal(t, 3, result.Pagination.TotalPage)
		require.Len(t, result.Payload, 2)
	})

	t.Run("page past the end yields an empty payload", func(t *testing.T) {
		result, err := repo.List(ctx, products.ListParams{Page: 9, Limit: 2})
		require.NoError(t, err)
		require.Empty(t, result.Payload)
		require.Equal(t, 5, result.Pagination.Total)
	})
}
