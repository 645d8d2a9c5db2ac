package repository

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteInventoryStore implements InventoryStore using SQLite. Default
// backend for local development and small deployments; WAL mode keeps
// concurrent product reads cheap while a sync run bulk-writes.
type SQLiteInventoryStore struct {
	*sqlStore
}

// NewSQLiteInventoryStore creates a SQLite inventory store.
// dbPath is the path to the database file (e.g. "./data/inventory.db").
func NewSQLiteInventoryStore(dbPath string, batchSize int) (*SQLiteInventoryStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)&_time_format=sqlite", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store, err := newSQLStore(db, sqliteDialect{}, batchSize)
	if err != nil {
		return nil, err
	}

	log.Printf("[SQLiteInventoryStore] Initialized with database: %s", dbPath)
	return &SQLiteInventoryStore{sqlStore: store}, nil
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "SQLite" }

func (sqliteDialect) Rebind(query string) string { return query }

// SQLite has no TRUNCATE; an unqualified DELETE takes the truncate
// optimization path.
func (sqliteDialect) Truncate(table string) string { return "DELETE FROM " + table }

func (sqliteDialect) Like(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?)"
}

func (sqliteDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stock_number TEXT UNIQUE NOT NULL,
			upc TEXT,
			description TEXT NOT NULL,
			department_number INTEGER,
			manufacturer_id TEXT,
			manufacturer_name TEXT,
			price REAL,
			retail_price REAL,
			quantity_on_hand INTEGER,
			weight REAL,
			length TEXT,
			width TEXT,
			height TEXT,
			image_url TEXT,
			category TEXT,
			subcategory TEXT,
			model TEXT,
			caliber TEXT,
			capacity INTEGER,
			action TEXT,
			hazmat BOOLEAN DEFAULT 0,
			free_shipping BOOLEAN DEFAULT 0,
			drop_ship BOOLEAN DEFAULT 0,
			allocated BOOLEAN DEFAULT 0,
			new_item BOOLEAN DEFAULT 0,
			closeout BOOLEAN DEFAULT 0,
			last_updated DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_stock_number ON inventory_items(stock_number)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_description ON inventory_items(description)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_manufacturer ON inventory_items(manufacturer_name)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_category ON inventory_items(category)`,
		`CREATE TABLE IF NOT EXISTS inventory_sync_metadata (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_sync DATETIME NOT NULL,
			item_count INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// Ensure SQLiteInventoryStore implements InventoryStore
var _ InventoryStore = (*SQLiteInventoryStore)(nil)
