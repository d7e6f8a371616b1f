// Package fakeproductrepo provides an in-memory catalog store used for tests
// and for running the server without a database.
package fakeproductrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/products"
)

type FakeProductRepo struct {
	mu    sync.RWMutex
	items map[string]*products.Product
}

func NewFakeProductRepo() *FakeProductRepo {
	return &FakeProductRepo{items: make(map[string]*products.Product)}
}

// Add seeds the catalog. A missing ID is generated.
func (f *FakeProductRepo) Add(product *products.Product) *products.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *product
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	f.items[stored.ID] = &stored

	result := stored
	return &result
}

func (f *FakeProductRepo) Get(_ context.Context, id string) (*products.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	product, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	result := *product
	return &result, nil
}

func (f *FakeProductRepo) List(_ context.Context, params products.ListParams) (*products.ListResult, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var matched []*products.Product
	for _, product := range f.items {
		if !matches(product, params) {
			continue
		}
		result := *product
		matched = append(matched, &result)
	}

	// Stable base order so pagination is deterministic before explicit sorts.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	sortProducts(matched, params.Sort, params.Order)

	pagination, start, end := products.Paginate(len(matched), params)
	payload := matched[start:end]
	if payload == nil {
		payload = []*products.Product{}
	}

	return &products.ListResult{
		Pagination: pagination,
		Payload:    payload,
	}, nil
}

func matches(product *products.Product, params products.ListParams) bool {
	if params.Title != "" && !strings.Contains(strings.ToLower(product.Title), strings.ToLower(params.Title)) {
		return false
	}
	if product.Sale < params.SaleGte {
		return false
	}
	if params.SaleLte > 0 && product.Sale > params.SaleLte {
		return false
	}
	if len(params.CategoryIDs) > 0 {
		found := false
		for _, categoryID := range params.CategoryIDs {
			if product.CategoryID == categoryID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortProducts(items []*products.Product, fields, orders []string) {
	if len(fields) == 0 {
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		for idx, field := range fields {
			ascending := idx < len(orders) && orders[idx] == "asc"
			cmp := compareField(items[i], items[j], field)
			if cmp == 0 {
				continue
			}
			if ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
}

func compareField(a, b *products.Product, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "price":
		return compareFloat(a.Price, b.Price)
	case "sale":
		return compareFloat(a.Sale, b.Sale)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
