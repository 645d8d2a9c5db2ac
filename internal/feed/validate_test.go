package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armory-api/internal/model"
)

func validRecord(stock string) model.InventoryRecord {
	return model.InventoryRecord{
		StockNumber:    stock,
		Description:    "Test item " + stock,
		ManufacturerID: "MFG1",
		Price:          10.00,
		RetailPrice:    15.00,
		QuantityOnHand: 5,
	}
}

func TestValidate_PartitionsEveryRecord(t *testing.T) {
	records := []model.InventoryRecord{
		validRecord("A1"),
		{StockNumber: "A2", Description: "No manufacturer", Price: 1},
		validRecord("A3"),
		{StockNumber: "A4", Description: "Bad qty", ManufacturerID: "M", QuantityOnHand: -1},
	}

	outcome := Validate(records)

	assert.Len(t, outcome.Valid, 2)
	assert.Len(t, outcome.Invalid, 2)
	assert.Equal(t, len(records), len(outcome.Valid)+len(outcome.Invalid),
		"every record lands in exactly one set")
}

func TestValidate_ReasonsPerRule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.InventoryRecord)
		reason string
	}{
		{"missing stock number", func(r *model.InventoryRecord) { r.StockNumber = "" }, "missing stock number"},
		{"missing description", func(r *model.InventoryRecord) { r.Description = "" }, "missing description"},
		{"missing manufacturer", func(r *model.InventoryRecord) { r.ManufacturerID = "" }, "missing manufacturer ID"},
		{"negative price", func(r *model.InventoryRecord) { r.Price = -0.01 }, "invalid price"},
		{"negative quantity", func(r *model.InventoryRecord) { r.QuantityOnHand = -3 }, "invalid quantity"},
		{"retail below cost", func(r *model.InventoryRecord) { r.Price = 20; r.RetailPrice = 18 }, "retail price is less than cost price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord("X1")
			tt.mutate(&rec)

			outcome := Validate([]model.InventoryRecord{rec})
			require.Len(t, outcome.Invalid, 1)
			assert.Contains(t, outcome.Invalid[0].Errors, tt.reason)
		})
	}
}

func TestValidate_RetailCheckSkippedWhenUnpriced(t *testing.T) {
	rec := validRecord("Z1")
	rec.RetailPrice = 0 // distributor omits MSRP for some items

	outcome := Validate([]model.InventoryRecord{rec})
	assert.Len(t, outcome.Valid, 1)
	assert.Empty(t, outcome.Invalid)
}

func TestValidate_CollectsMultipleReasons(t *testing.T) {
	rec := model.InventoryRecord{Price: -1, QuantityOnHand: -1}

	outcome := Validate([]model.InventoryRecord{rec})
	require.Len(t, outcome.Invalid, 1)
	assert.Len(t, outcome.Invalid[0].Errors, 5)
}

func TestValidate_EmptyInput(t *testing.T) {
	outcome := Validate(nil)
	assert.Empty(t, outcome.Valid)
	assert.Empty(t, outcome.Invalid)
}
