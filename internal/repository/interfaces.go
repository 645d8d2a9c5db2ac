package repository

import (
	"context"

	"armory-api/internal/model"
)

// InventoryStore persists the inventory snapshot. Two backend families
// implement it (a Redis key-value store and SQL relational stores); callers
// select one via configuration and must not depend on variant behavior
// beyond this contract.
type InventoryStore interface {
	// ReplaceAll replaces the entire prior snapshot with records, then
	// updates the sync metadata. Metadata is written last so readers never
	// observe an old snapshot paired with a fresh sync timestamp; a crash
	// mid-write may still leave a partial snapshot.
	ReplaceAll(ctx context.Context, records []model.InventoryRecord) error

	// QueryPage returns one page of records matching filter, plus the total
	// matching count. page is 1-based. Ordering is stable by description,
	// ascending, absent concurrent writes.
	QueryPage(ctx context.Context, page, pageSize int, filter model.ProductFilter) ([]model.InventoryRecord, int, error)

	// SyncMetadata returns the last sync timestamp, item count and derived
	// freshness flag.
	SyncMetadata(ctx context.Context) (model.SyncMetadata, error)

	// Close closes the backend connection.
	Close() error
}
