package server

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/products"
)

func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.products.List(r.Context(), listParamsFromQuery(r))
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) GetProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := s.products.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, apiError{Error: true, Mess: "Not found product"})
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, product)
	}
}

func listParamsFromQuery(r *http.Request) products.ListParams {
	query := r.URL.Query()

	params := products.ListParams{
		Title:   query.Get("title"),
		SaleGte: parseFloat(query.Get("saleGte")),
		SaleLte: parseFloat(query.Get("saleLte")),
		Page:    parseInt(query.Get("page"), 1),
		Limit:   parseInt(query.Get("limit"), 0),
	}
	if raw := query.Get("listCategoryId"); raw != "" {
		params.CategoryIDs = splitCSV(raw)
	}
	if raw := query.Get("sort"); raw != "" {
		params.Sort = splitCSV(raw)
		params.Order = splitCSV(query.Get("order"))
	}

	return params
}

func splitCSV(raw string) []string {
	var values []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func parseFloat(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
