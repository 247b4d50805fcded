package models

import (
	"time"
)

// Language represents the packaging language of a catalog entry
type Language string

const (
	LanguageSpanish Language = "ES"
	LanguageEnglish Language = "EN"
)

// CatalogEntry represents one sellable variant in the canonical catalog.
// Exactly one active entry exists per SKU; BaseCode groups the variants of
// a product family (unit, display, master box, language editions).
type CatalogEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Identification
	SKU       string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_catalog_entries_sku" json:"sku"`
	MasterSKU *string `gorm:"type:varchar(255);index:idx_catalog_entries_master_sku" json:"masterSku,omitempty"`
	BaseCode  string  `gorm:"type:varchar(100);not null;index:idx_catalog_entries_base_code" json:"baseCode"`

	// Descriptive
	Category    string `gorm:"type:varchar(255)" json:"category"`
	ProductName string `gorm:"type:varchar(500);not null" json:"productName"`

	// Packaging multipliers
	UnitsPerDisplay   int `gorm:"not null;default:1" json:"unitsPerDisplay"`
	ItemsPerMasterBox int `gorm:"not null;default:1" json:"itemsPerMasterBox"`

	Language        Language `gorm:"type:varchar(10);not null;default:'ES'" json:"language"`
	IsMasterVariant bool     `gorm:"not null;default:false" json:"isMasterVariant"`
	Active          bool     `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for CatalogEntry
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}

// HasMasterSKU reports whether the entry carries a shipping-box alternate key.
func (e *CatalogEntry) HasMasterSKU() bool {
	return e.MasterSKU != nil && *e.MasterSKU != ""
}
