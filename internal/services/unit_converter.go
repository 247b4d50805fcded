package services

import (
	"sku-resolution-service/internal/models"
)

// UnitConverter turns resolved order lines into true base-unit counts.
// Downstream revenue and inventory aggregation treat its output as ground
// truth, so unmapped volume passes through 1:1 instead of being dropped.
type UnitConverter struct {
	catalog *Snapshot[CatalogIndex]
}

// NewUnitConverter creates a converter over the shared catalog snapshot.
func NewUnitConverter(catalog *Snapshot[CatalogIndex]) *UnitConverter {
	return &UnitConverter{catalog: catalog}
}

// Convert computes quantity * packQuantity * conversion factor for a
// resolved line. Unresolved lines return quantity unchanged.
func (c *UnitConverter) Convert(result models.ResolutionResult, quantity int) int {
	if !result.Resolved() {
		return quantity
	}

	packQuantity := result.PackQuantity
	if packQuantity < 1 {
		packQuantity = 1
	}

	factor := 1
	if idx, _, ok := c.catalog.Get(); ok {
		factor = idx.ConversionFactor(result.ResolvedSKU)
	}

	return quantity * packQuantity * factor
}
