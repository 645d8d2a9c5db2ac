package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLInventoryStore implements InventoryStore using MySQL. Offered for
// shops whose existing infrastructure is MySQL-based; behavior matches the
// PostgreSQL variant.
type MySQLInventoryStore struct {
	*sqlStore
}

// NewMySQLInventoryStore creates a MySQL inventory store.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLInventoryStore(dsn string, batchSize int) (*MySQLInventoryStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	store, err := newSQLStore(db, mysqlDialect{}, batchSize)
	if err != nil {
		return nil, err
	}

	log.Printf("[MySQLInventoryStore] Initialized (batch size %d)", store.batchSize)
	return &MySQLInventoryStore{sqlStore: store}, nil
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "MySQL" }

func (mysqlDialect) Rebind(query string) string { return query }

func (mysqlDialect) Truncate(table string) string { return "TRUNCATE TABLE " + table }

func (mysqlDialect) Like(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?)"
}

func (mysqlDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			stock_number VARCHAR(50) UNIQUE NOT NULL,
			upc VARCHAR(20),
			description TEXT NOT NULL,
			department_number INT,
			manufacturer_id VARCHAR(20),
			manufacturer_name VARCHAR(100),
			price DECIMAL(10,2),
			retail_price DECIMAL(10,2),
			quantity_on_hand INT,
			weight DECIMAL(8,2),
			length VARCHAR(20),
			width VARCHAR(20),
			height VARCHAR(20),
			image_url TEXT,
			category VARCHAR(100),
			subcategory VARCHAR(100),
			model VARCHAR(100),
			caliber VARCHAR(50),
			capacity INT,
			action VARCHAR(50),
			hazmat BOOLEAN DEFAULT FALSE,
			free_shipping BOOLEAN DEFAULT FALSE,
			drop_ship BOOLEAN DEFAULT FALSE,
			allocated BOOLEAN DEFAULT FALSE,
			new_item BOOLEAN DEFAULT FALSE,
			closeout BOOLEAN DEFAULT FALSE,
			last_updated DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_inventory_description (description(191)),
			INDEX idx_inventory_manufacturer (manufacturer_name),
			INDEX idx_inventory_category (category)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_sync_metadata (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			last_sync DATETIME NOT NULL,
			item_count INT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// Ensure MySQLInventoryStore implements InventoryStore
var _ InventoryStore = (*MySQLInventoryStore)(nil)
