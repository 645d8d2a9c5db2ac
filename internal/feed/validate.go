package feed

import "armory-api/internal/model"

// Validate partitions records into valid and invalid sets with per-record
// reasons. Pure function: business-rule violations are data, not errors.
// Every input record lands in exactly one of the two sets.
func Validate(records []model.InventoryRecord) model.ValidationOutcome {
	outcome := model.ValidationOutcome{
		Valid:   make([]model.InventoryRecord, 0, len(records)),
		Invalid: make([]model.InvalidRecord, 0),
	}

	for _, rec := range records {
		var errs []string

		if rec.StockNumber == "" {
			errs = append(errs, "missing stock number")
		}
		if rec.Description == "" {
			errs = append(errs, "missing description")
		}
		if rec.ManufacturerID == "" {
			errs = append(errs, "missing manufacturer ID")
		}
		if rec.Price < 0 {
			errs = append(errs, "invalid price")
		}
		if rec.QuantityOnHand < 0 {
			errs = append(errs, "invalid quantity")
		}
		if rec.Price > 0 && rec.RetailPrice > 0 && rec.RetailPrice < rec.Price {
			errs = append(errs, "retail price is less than cost price")
		}

		if len(errs) == 0 {
			outcome.Valid = append(outcome.Valid, rec)
		} else {
			outcome.Invalid = append(outcome.Invalid, model.InvalidRecord{Record: rec, Errors: errs})
		}
	}

	return outcome
}
