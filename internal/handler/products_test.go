package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armory-api/internal/model"
)

// stubStore hands back a canned page and records the query it received.
type stubStore struct {
	records  []model.InventoryRecord
	total    int
	err      error
	page     int
	pageSize int
	filter   model.ProductFilter
}

func (s *stubStore) ReplaceAll(ctx context.Context, records []model.InventoryRecord) error {
	return nil
}

func (s *stubStore) QueryPage(ctx context.Context, page, pageSize int, filter model.ProductFilter) ([]model.InventoryRecord, int, error) {
	s.page, s.pageSize, s.filter = page, pageSize, filter
	return s.records, s.total, s.err
}

func (s *stubStore) SyncMetadata(ctx context.Context) (model.SyncMetadata, error) {
	return model.SyncMetadata{}, nil
}

func (s *stubStore) Close() error { return nil }

func getProducts(t *testing.T, store *stubStore, query string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewProductHandler(store)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+query, nil)
	rec := httptest.NewRecorder()
	h.GetProducts(rec, req)
	return rec
}

func TestGetProducts_Defaults(t *testing.T) {
	store := &stubStore{records: []model.InventoryRecord{{StockNumber: "S1"}}, total: 1}
	rec := getProducts(t, store, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.page)
	assert.Equal(t, defaultPageSize, store.pageSize)

	var envelope struct {
		Success bool              `json:"success"`
		Data    model.ProductPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 1, envelope.Data.TotalCount)
	assert.False(t, envelope.Data.HasMore)
	require.Len(t, envelope.Data.Records, 1)
	assert.Equal(t, "S1", envelope.Data.Records[0].StockNumber)
}

func TestGetProducts_PageSizeCapped(t *testing.T) {
	store := &stubStore{}
	rec := getProducts(t, store, "?pageSize=500")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxPageSize, store.pageSize)
}

func TestGetProducts_InvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"page zero", "?page=0"},
		{"page not a number", "?page=abc"},
		{"pageSize zero", "?pageSize=0"},
		{"pageSize negative", "?pageSize=-5"},
		{"minPrice negative", "?minPrice=-1"},
		{"minPrice not a number", "?minPrice=cheap"},
		{"maxPrice negative", "?maxPrice=-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getProducts(t, &stubStore{}, tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetProducts_FilterPassthrough(t *testing.T) {
	store := &stubStore{}
	rec := getProducts(t, store, "?search=glock&category=Handguns&manufacturer=Glock&minPrice=100&maxPrice=600&inStock=true")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ProductFilter{
		Search:       "glock",
		Category:     "Handguns",
		Manufacturer: "Glock",
		MinPrice:     100,
		MaxPrice:     600,
		InStockOnly:  true,
	}, store.filter)
}

func TestGetProducts_HasMore(t *testing.T) {
	store := &stubStore{total: 120}
	rec := getProducts(t, store, "?page=2&pageSize=50")

	var envelope struct {
		Data model.ProductPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.HasMore, "2*50 < 120")
	assert.Equal(t, 2, envelope.Data.Page)

	store = &stubStore{total: 100}
	rec = getProducts(t, store, "?page=2&pageSize=50")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.HasMore)
}

func TestGetProducts_StoreFailure(t *testing.T) {
	rec := getProducts(t, &stubStore{err: assert.AnError}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
