package model

import "time"

// InventoryRecord is one distributor SKU snapshot as parsed from the
// flat-file feed. Records are created fresh on every sync run and replaced
// wholesale by the next successful sync.
type InventoryRecord struct {
	StockNumber      string    `json:"stockNumber"`
	UPC              string    `json:"upc"`
	Description      string    `json:"description"`
	DepartmentNumber int       `json:"departmentNumber"`
	ManufacturerID   string    `json:"manufacturerId"`
	ManufacturerName string    `json:"manufacturerName"`
	Price            float64   `json:"price"`       // wholesale/dealer price
	RetailPrice      float64   `json:"retailPrice"` // suggested retail (MSRP)
	QuantityOnHand   int       `json:"quantityOnHand"`
	Weight           float64   `json:"weight"`
	Length           string    `json:"length"`
	Width            string    `json:"width"`
	Height           string    `json:"height"`
	ImageURL         string    `json:"imageUrl"`
	Category         string    `json:"category"`
	Subcategory      string    `json:"subcategory"`
	Model            string    `json:"model"`
	Caliber          string    `json:"caliber"`
	Capacity         int       `json:"capacity"`
	Action           string    `json:"action"`
	Hazmat           bool      `json:"hazmat"`
	FreeShipping     bool      `json:"freeShipping"`
	DropShip         bool      `json:"dropShip"`
	Allocated        bool      `json:"allocated"`
	NewItem          bool      `json:"newItem"`
	Closeout         bool      `json:"closeout"`
	LastUpdated      time.Time `json:"lastUpdated"` // assigned at parse time
}

// SyncStaleness is how old the last successful sync may be before the
// catalog is reported as stale.
const SyncStaleness = 3 * time.Hour

// SyncMetadata describes the last successful sync. Owned and overwritten by
// the storage backend on every successful ReplaceAll.
type SyncMetadata struct {
	LastSync  *time.Time `json:"lastSync"`
	ItemCount int        `json:"itemCount"`
	Healthy   bool       `json:"healthy"`
}

// Fresh reports whether a sync at t is recent enough to be considered healthy.
func Fresh(t time.Time, now time.Time) bool {
	return now.Sub(t) < SyncStaleness
}

// InvalidRecord pairs a record with the validation reasons that excluded it
// from persistence.
type InvalidRecord struct {
	Record InventoryRecord `json:"record"`
	Errors []string        `json:"errors"`
}

// ValidationOutcome partitions a parsed record set. Transient, never
// persisted; folded into the sync report.
type ValidationOutcome struct {
	Valid   []InventoryRecord
	Invalid []InvalidRecord
}

// ProductFilter narrows a product query. The zero value matches everything.
type ProductFilter struct {
	Search       string
	Category     string
	Manufacturer string
	MinPrice     float64
	MaxPrice     float64
	InStockOnly  bool
}

// IsZero reports whether no filter terms are set.
func (f ProductFilter) IsZero() bool {
	return f == ProductFilter{}
}
