package repository

import (
	"context"

	"gorm.io/gorm"
	"sku-resolution-service/internal/models"
)

// CatalogSourceInterface is the read side of the catalog store. The
// management system owns writes; this service only takes full snapshots.
type CatalogSourceInterface interface {
	ListActiveEntries(ctx context.Context) ([]models.CatalogEntry, error)
}

// CatalogRepository handles catalog-related database operations
type CatalogRepository struct {
	db *gorm.DB
}

// Ensure CatalogRepository implements the interface
var _ CatalogSourceInterface = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListActiveEntries fetches the full set of active catalog entries. The
// caller supplies the timeout through ctx; snapshot builds depend on this
// being a complete, single-query read.
func (r *CatalogRepository) ListActiveEntries(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sku ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
