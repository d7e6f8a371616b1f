package postgres

import (
	"testing"

	"github.com/popudev/server-ecommerce/products"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	t.Run("no params yields no clause", func(t *testing.T) {
		where, args := buildFilter(products.ListParams{})
		require.Empty(t, where)
		require.Empty(t, args)
	})

	t.Run("all params compose with stable placeholders", func(t *testing.T) {
		where, args := buildFilter(products.ListParams{
			Title:       "laptop",
			SaleGte:     10,
			SaleLte:     50,
			CategoryIDs: []string{"c1", "c2"},
		})
		require.Equal(t,
			"WHERE title ILIKE $1 AND sale >= $2 AND sale <= $3 AND category_id IN ($4, $5)",
			where)
		require.Equal(t, []any{"%laptop%", 10.0, 50.0, "c1", "c2"}, args)
	})
}

func TestBuildOrder(t *testing.T) {
	t.Run("defaults to id for a stable order", func(t *testing.T) {
		require.Equal(t, " ORDER BY id ASC", buildOrder(products.ListParams{}))
	})

	t.Run("whitelisted fields map to columns with per-field direction", func(t *testing.T) {
		order := buildOrder(products.ListParams{
			Sort:  []string{"sale", "createdAt", "bogus; DROP TABLE products"},
			Order: []string{"desc", "asc"},
		})
		require.Equal(t, " ORDER BY sale DESC, created_at ASC, id ASC", order)
	})
}
