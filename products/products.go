package products

import (
	"context"
	"time"
)

// Product is a catalog entry. Sale is the discount percentage the listing
// filters range over.
type Product struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Sale        float64   `json:"sale"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListParams are the catalog search filters. Sort and Order are parallel
// lists: Sort[i] is ordered by Order[i] ("asc" or "desc"); anything other
// than "asc" sorts descending. Page is 1-based.
type ListParams struct {
	Title       string
	SaleGte     float64
	SaleLte     float64
	CategoryIDs []string
	Sort        []string
	Order       []string
	Page        int
	Limit       int
}

// Pagination describes the page that was returned.
type Pagination struct {
	Total     int `json:"total"`
	Page      int `json:"page"`
	TotalPage int `json:"totalPage"`
}

// ListResult is one page of matching products plus the pagination facet.
type ListResult struct {
	Pagination Pagination `json:"pagination"`
	Payload    []*Product `json:"payload"`
}

// Repo is the catalog store.
type Repo interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// Paginate computes the pagination facet and the slice bounds for one page.
// Limit <= 0 means no paging (everything on page 1).
func Paginate(total int, params ListParams) (Pagination, int, int) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit

	if limit <= 0 {
		return Pagination{Total: total, Page: page, TotalPage: 1}, 0, total
	}

	totalPage := (total + limit - 1) / limit
	start := limit * (page - 1)
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Pagination{Total: total, Page: page, TotalPage: totalPage}, start, end
}
