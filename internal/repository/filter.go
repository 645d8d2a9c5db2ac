package repository

import (
	"sort"
	"strings"

	"armory-api/internal/model"
)

// Pure filtering, ordering and pagination helpers. The Redis backend applies
// these after materializing the full snapshot (it has no server-side
// indexing); the SQL backends translate the same semantics to WHERE clauses.

// MatchesFilter reports whether rec satisfies every provided filter term.
// Text terms are case-insensitive substring matches, AND-combined.
func MatchesFilter(rec model.InventoryRecord, f model.ProductFilter) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(rec.Description), term) &&
			!strings.Contains(strings.ToLower(rec.ManufacturerName), term) &&
			!strings.Contains(strings.ToLower(rec.Model), term) &&
			!strings.Contains(strings.ToLower(rec.StockNumber), term) {
			return false
		}
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(rec.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.Manufacturer != "" && !strings.Contains(strings.ToLower(rec.ManufacturerName), strings.ToLower(f.Manufacturer)) {
		return false
	}
	if f.MinPrice > 0 && rec.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && rec.Price > f.MaxPrice {
		return false
	}
	if f.InStockOnly && rec.QuantityOnHand <= 0 {
		return false
	}
	return true
}

// SortByDescription orders records by description ascending, with stock
// number as tie-breaker so pagination stays stable for duplicate
// descriptions.
func SortByDescription(records []model.InventoryRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Description != records[j].Description {
			return records[i].Description < records[j].Description
		}
		return records[i].StockNumber < records[j].StockNumber
	})
}

// Paginate slices one 1-based page out of records.
func Paginate(records []model.InventoryRecord, page, pageSize int) []model.InventoryRecord {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []model.InventoryRecord{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
