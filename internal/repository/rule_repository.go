package repository

import (
	"context"

	"gorm.io/gorm"
	"sku-resolution-service/internal/models"
)

// RuleSourceInterface is the read side of the mapping-rule store.
type RuleSourceInterface interface {
	ListActiveRules(ctx context.Context) ([]models.MappingRule, error)
}

// RuleRepository handles mapping-rule database operations
type RuleRepository struct {
	db *gorm.DB
}

// Ensure RuleRepository implements the interface
var _ RuleSourceInterface = (*RuleRepository)(nil)

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListActiveRules fetches all active mapping rules ordered for evaluation:
// priority descending, then id ascending so equal-priority rules keep
// insertion order.
func (r *RuleRepository) ListActiveRules(ctx context.Context) ([]models.MappingRule, error) {
	var rules []models.MappingRule
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("priority DESC, id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
