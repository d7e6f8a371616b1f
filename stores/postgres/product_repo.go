package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/products"
)

// sortColumns whitelists the client-supplied sort fields.
var sortColumns = map[string]string{
	"title":     "title",
	"price":     "price",
	"sale":      "sale",
	"createdAt": "created_at",
}

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*products.Product, error) {
	query := `SELECT id, title, price, sale, description, category_id, image, created_at
		FROM products WHERE id = $1`

	product := &products.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Title, &product.Price, &product.Sale,
		&product.Description, &product.CategoryID, &product.Image, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[ProductRepo.Get] scan")
	}
	return product, nil
}

func (r *ProductRepo) List(ctx context.Context, params products.ListParams) (*products.ListResult, error) {
	where, args := buildFilter(params)

	var total int
	countQuery := `SELECT count(*) FROM products ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, errors.Wrap(err, "[ProductRepo.List] count")
	}

	pagination, start, end := products.Paginate(total, params)

	query := `SELECT id, title, price, sale, description, category_id, image, created_at
		FROM products ` + where + buildOrder(params)
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", end-start, start)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "[ProductRepo.List] query")
	}
	defer rows.Close()

	payload := []*products.Product{}
	for rows.Next() {
		product := &products.Product{}
		if err := rows.Scan(&product.ID, &product.Title, &product.Price, &product.Sale,
			&product.Description, &product.CategoryID, &product.Image, &product.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "[ProductRepo.List] scan")
		}
		payload = append(payload, product)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[ProductRepo.List] rows")
	}

	return &products.ListResult{
		Pagination: pagination,
		Payload:    payload,
	}, nil
}

func buildFilter(params products.ListParams) (string, []any) {
	var conditions []string
	var args []any

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Title != "" {
		conditions = append(conditions, "title ILIKE "+arg("%"+params.Title+"%"))
	}
	if params.SaleGte > 0 {
		conditions = append(conditions, "sale >= "+arg(params.SaleGte))
	}
	if params.SaleLte > 0 {
		conditions = append(conditions, "sale <= "+arg(params.SaleLte))
	}
	if len(params.CategoryIDs) > 0 {
		placeholders := make([]string, 0, len(params.CategoryIDs))
		for _, categoryID := range params.CategoryIDs {
			placeholders = append(placeholders, arg(categoryID))
		}
		conditions = append(conditions, "category_id IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func buildOrder(params products.ListParams) string {
	var clauses []string
	for i, field := range params.Sort {
		column, ok := sortColumns[field]
		if !ok {
			continue
		}
		direction := "DESC"
		if i < len(params.Order) && params.Order[i] == "asc" {
			direction = "ASC"
		}
		clauses = append(clauses, column+" "+direction)
	}
	clauses = append(clauses, "id ASC")
	return " ORDER BY " + strings.Join(clauses, ", ")
}
