package handler

import (
	"net/http"
	"strconv"

	"armory-api/internal/model"
	"armory-api/internal/repository"
	"armory-api/pkg/apierror"
	"armory-api/pkg/response"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ProductHandler serves paginated product queries from the inventory store.
type ProductHandler struct {
	store repository.InventoryStore
}

// NewProductHandler creates a new product handler.
func NewProductHandler(store repository.InventoryStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// GetProducts handles GET /api/v1/products.
// Query parameters: page, pageSize, search, category, manufacturer,
// minPrice, maxPrice, inStock.
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Error(w, apierror.BadRequest("page must be a positive integer"))
			return
		}
		page = n
	}

	pageSize := defaultPageSize
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			response.Error(w, apierror.BadRequest("pageSize must be a positive integer"))
			return
		}
		pageSize = n
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := model.ProductFilter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		Manufacturer: q.Get("manufacturer"),
		InStockOnly:  q.Get("inStock") == "true",
	}
	if v := q.Get("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			response.Error(w, apierror.BadRequest("minPrice must be a non-negative number"))
			return
		}
		filter.MinPrice = f
	}
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			response.Error(w, apierror.BadRequest("maxPrice must be a non-negative number"))
			return
		}
		filter.MaxPrice = f
	}

	records, total, err := h.store.QueryPage(r.Context(), page, pageSize, filter)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to query products"))
		return
	}

	response.OK(w, model.ProductPage{
		Records:    records,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		HasMore:    page*pageSize < total,
	})
}
