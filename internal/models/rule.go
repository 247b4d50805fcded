package models

import (
	"strings"
	"time"
)

// PatternType represents the matching algorithm of a mapping rule
type PatternType string

const (
	PatternExact    PatternType = "EXACT"
	PatternPrefix   PatternType = "PREFIX"
	PatternSuffix   PatternType = "SUFFIX"
	PatternContains PatternType = "CONTAINS"
	PatternRegex    PatternType = "REGEX"
)

// MappingRule represents a configurable SKU mapping owned by the management
// system. Rules are evaluated by descending Priority; ties fall back to
// ascending ID (insertion order) so evaluation stays deterministic.
type MappingRule struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	SourcePattern string      `gorm:"type:varchar(255);not null" json:"sourcePattern"`
	PatternType   PatternType `gorm:"type:varchar(20);not null;default:'EXACT'" json:"patternType"`

	// Optional channel restriction; empty means the rule applies to all sources.
	SourceFilter *string `gorm:"type:varchar(100)" json:"sourceFilter,omitempty"`

	TargetSKU          string `gorm:"type:varchar(255);not null" json:"targetSku"`
	QuantityMultiplier int    `gorm:"not null;default:1" json:"quantityMultiplier"`
	Confidence         int    `gorm:"not null;default:80" json:"confidence"`
	Priority           int    `gorm:"not null;default:0;index:idx_mapping_rules_priority" json:"priority"`
	Active             bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for MappingRule
func (MappingRule) TableName() string {
	return "mapping_rules"
}

// AppliesTo reports whether the rule's source filter allows the given channel.
func (r *MappingRule) AppliesTo(source string) bool {
	if r.SourceFilter == nil || *r.SourceFilter == "" {
		return true
	}
	return strings.EqualFold(*r.SourceFilter, source)
}
