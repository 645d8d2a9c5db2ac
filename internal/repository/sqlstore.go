package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"armory-api/internal/model"
)

// DefaultInsertBatchSize is how many rows one multi-row INSERT carries.
// Large batches keep the bulk load inside a serverless time budget.
const DefaultInsertBatchSize = 1000

// inventoryColumns is the column list of the inventory_items table, in the
// order used by both INSERT and SELECT.
var inventoryColumns = []string{
	"stock_number", "upc", "description", "department_number",
	"manufacturer_id", "manufacturer_name", "price", "retail_price",
	"quantity_on_hand", "weight", "length", "width", "height", "image_url",
	"category", "subcategory", "model", "caliber", "capacity", "action",
	"hazmat", "free_shipping", "drop_ship", "allocated", "new_item",
	"closeout", "last_updated",
}

// dialect abstracts the syntax differences between the supported SQL
// engines. All shared SQL is written with ? placeholders and rewritten per
// engine.
type dialect interface {
	// Name of the engine, for logging.
	Name() string
	// Rebind rewrites ? placeholders into the engine's native form.
	Rebind(query string) string
	// Truncate is the fastest full-table clear statement.
	Truncate(table string) string
	// Like returns a case-insensitive substring condition on column with
	// one ? placeholder.
	Like(column string) string
	// Schema returns the DDL statements creating tables and indexes.
	Schema() []string
}

// sqlStore implements InventoryStore over database/sql for a particular
// dialect. Relational variant of the storage contract: truncate-then-insert
// snapshot replace, server-side filtered pagination.
type sqlStore struct {
	db        *sql.DB
	d         dialect
	batchSize int
}

func newSQLStore(db *sql.DB, d dialect, batchSize int) (*sqlStore, error) {
	if batchSize <= 0 {
		batchSize = DefaultInsertBatchSize
	}
	for _, stmt := range d.Schema() {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &sqlStore{db: db, d: d, batchSize: batchSize}, nil
}

// ReplaceAll truncates the snapshot and bulk-inserts records in multi-row
// batches inside one transaction, recording sync metadata last.
func (s *sqlStore) ReplaceAll(ctx context.Context, records []model.InventoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.d.Truncate("inventory_items")); err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}

	saved := 0
	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if err := s.insertBatch(ctx, tx, batch); err != nil {
			return err
		}
		saved += len(batch)
		log.Printf("[%sInventoryStore] Saved batch - %d/%d items", s.d.Name(), saved, len(records))
	}

	// Metadata goes last: a reader must never see a fresh timestamp paired
	// with the previous snapshot.
	metaQuery := s.d.Rebind(`INSERT INTO inventory_sync_metadata (last_sync, item_count) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, metaQuery, time.Now().UTC(), len(records)); err != nil {
		return fmt.Errorf("failed to record sync metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func (s *sqlStore) insertBatch(ctx context.Context, tx *sql.Tx, batch []model.InventoryRecord) error {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(inventoryColumns)), ", ") + ")"
	rows := make([]string, len(batch))
	args := make([]interface{}, 0, len(batch)*len(inventoryColumns))

	for i, rec := range batch {
		rows[i] = row
		args = append(args,
			rec.StockNumber, rec.UPC, rec.Description, rec.DepartmentNumber,
			rec.ManufacturerID, rec.ManufacturerName, rec.Price, rec.RetailPrice,
			rec.QuantityOnHand, rec.Weight, rec.Length, rec.Width, rec.Height,
			rec.ImageURL, rec.Category, rec.Subcategory, rec.Model, rec.Caliber,
			rec.Capacity, rec.Action, rec.Hazmat, rec.FreeShipping, rec.DropShip,
			rec.Allocated, rec.NewItem, rec.Closeout, rec.LastUpdated,
		)
	}

	query := s.d.Rebind(fmt.Sprintf(
		"INSERT INTO inventory_items (%s) VALUES %s",
		strings.Join(inventoryColumns, ", "),
		strings.Join(rows, ",\n"),
	))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk insert inventory batch: %w", err)
	}
	return nil
}

// QueryPage returns one page of the snapshot, filtered server-side.
func (s *sqlStore) QueryPage(ctx context.Context, page, pageSize int, filter model.ProductFilter) ([]model.InventoryRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	where, args := s.buildWhere(filter)

	var total int
	countQuery := s.d.Rebind("SELECT COUNT(*) FROM inventory_items" + where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}

	query := s.d.Rebind(fmt.Sprintf(
		"SELECT %s FROM inventory_items%s ORDER BY description ASC, stock_number ASC LIMIT ? OFFSET ?",
		strings.Join(inventoryColumns, ", "), where,
	))
	pageArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory page: %w", err)
	}
	defer rows.Close()

	records := make([]model.InventoryRecord, 0, pageSize)
	for rows.Next() {
		var rec model.InventoryRecord
		if err := rows.Scan(
			&rec.StockNumber, &rec.UPC, &rec.Description, &rec.DepartmentNumber,
			&rec.ManufacturerID, &rec.ManufacturerName, &rec.Price, &rec.RetailPrice,
			&rec.QuantityOnHand, &rec.Weight, &rec.Length, &rec.Width, &rec.Height,
			&rec.ImageURL, &rec.Category, &rec.Subcategory, &rec.Model, &rec.Caliber,
			&rec.Capacity, &rec.Action, &rec.Hazmat, &rec.FreeShipping, &rec.DropShip,
			&rec.Allocated, &rec.NewItem, &rec.Closeout, &rec.LastUpdated,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read inventory rows: %w", err)
	}

	return records, total, nil
}

// buildWhere translates a ProductFilter into AND-combined SQL conditions.
func (s *sqlStore) buildWhere(f model.ProductFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Search != "" {
		conds = append(conds, fmt.Sprintf("(%s OR %s OR %s OR %s)",
			s.d.Like("description"), s.d.Like("manufacturer_name"),
			s.d.Like("model"), s.d.Like("stock_number")))
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if f.Category != "" {
		conds = append(conds, s.d.Like("category"))
		args = append(args, "%"+f.Category+"%")
	}
	if f.Manufacturer != "" {
		conds = append(conds, s.d.Like("manufacturer_name"))
		args = append(args, "%"+f.Manufacturer+"%")
	}
	if f.MinPrice > 0 {
		conds = append(conds, "price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		conds = append(conds, "price <= ?")
		args = append(args, f.MaxPrice)
	}
	if f.InStockOnly {
		conds = append(conds, "quantity_on_hand > 0")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SyncMetadata returns the most recent sync record.
func (s *sqlStore) SyncMetadata(ctx context.Context) (model.SyncMetadata, error) {
	query := `SELECT last_sync, item_count FROM inventory_sync_metadata ORDER BY id DESC LIMIT 1`

	var lastSync time.Time
	var count int
	err := s.db.QueryRowContext(ctx, query).Scan(&lastSync, &count)
	if err == sql.ErrNoRows {
		return model.SyncMetadata{}, nil
	}
	if err != nil {
		return model.SyncMetadata{}, fmt.Errorf("failed to read sync metadata: %w", err)
	}

	return model.SyncMetadata{
		LastSync:  &lastSync,
		ItemCount: count,
		Healthy:   model.Fresh(lastSync, time.Now().UTC()),
	}, nil
}

// Close closes the database connection pool.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// rebindNumbered rewrites ? placeholders to $1..$n (PostgreSQL form).
func rebindNumbered(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
