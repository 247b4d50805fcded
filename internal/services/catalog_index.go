package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"sku-resolution-service/internal/models"
)

var (
	errEmptySKU             = errors.New("empty sku")
	errBadUnitsPerDisplay   = errors.New("units_per_display below 1")
	errBadItemsPerMasterBox = errors.New("items_per_master_box below 1")
)

// Minimum catalog SKU length considered for substring matching. Shorter
// codes produce too many accidental hits inside marketplace identifiers.
const minSubstringSKULen = 8

// CatalogIndex is an immutable in-memory index over one catalog snapshot.
// It is built once per load and shared by all concurrent resolvers; nothing
// mutates it after BuildCatalogIndex returns.
type CatalogIndex struct {
	bySKU       map[string]*models.CatalogEntry
	byMasterSKU map[string]*models.CatalogEntry

	// sku -> SKU primario, computed once per load. SKUs whose family has
	// no Spanish minimal-unit entry are absent and resolve to themselves.
	primario map[string]string

	// Substring-match candidates, longest first. Normal SKUs are tried
	// before master SKUs.
	substringSKUs       []string
	substringMasterSKUs []string
}

// BuildCatalogIndex constructs the index from a catalog snapshot. Entries
// with inconsistent numeric fields are dropped individually rather than
// failing the whole load.
func BuildCatalogIndex(entries []models.CatalogEntry, logger *logrus.Entry) *CatalogIndex {
	idx := &CatalogIndex{
		bySKU:       make(map[string]*models.CatalogEntry, len(entries)),
		byMasterSKU: make(map[string]*models.CatalogEntry),
		primario:    make(map[string]string),
	}

	families := make(map[string][]*models.CatalogEntry)

	for i := range entries {
		entry := &entries[i]
		if err := validateEntry(entry); err != nil {
			logger.WithFields(logrus.Fields{
				"sku":    entry.SKU,
				"reason": err.Error(),
			}).Warn("Dropping catalog entry from index")
			continue
		}
		if _, exists := idx.bySKU[entry.SKU]; exists {
			logger.WithField("sku", entry.SKU).Warn("Duplicate catalog SKU, keeping first entry")
			continue
		}

		idx.bySKU[entry.SKU] = entry
		if entry.HasMasterSKU() {
			idx.byMasterSKU[*entry.MasterSKU] = entry
		}
		if entry.BaseCode != "" {
			families[entry.BaseCode] = append(families[entry.BaseCode], entry)
		}
	}

	idx.buildPrimarios(families)
	idx.buildSubstringCandidates()

	return idx
}

func validateEntry(entry *models.CatalogEntry) error {
	switch {
	case entry.SKU == "":
		return errEmptySKU
	case entry.UnitsPerDisplay < 1:
		return errBadUnitsPerDisplay
	case entry.HasMasterSKU() && entry.ItemsPerMasterBox < 1:
		return errBadItemsPerMasterBox
	}
	return nil
}

func (idx *CatalogIndex) buildPrimarios(families map[string][]*models.CatalogEntry) {
	for _, members := range families {
		var primario *models.CatalogEntry
		for _, entry := range members {
			if entry.UnitsPerDisplay == 1 && entry.Language == models.LanguageSpanish {
				if primario == nil || entry.SKU < primario.SKU {
					primario = entry
				}
			}
		}
		if primario == nil {
			continue
		}
		for _, entry := range members {
			idx.primario[entry.SKU] = primario.SKU
		}
	}
}

func (idx *CatalogIndex) buildSubstringCandidates() {
	for sku := range idx.bySKU {
		if len(sku) >= minSubstringSKULen {
			idx.substringSKUs = append(idx.substringSKUs, sku)
		}
	}
	for sku := range idx.byMasterSKU {
		if len(sku) >= minSubstringSKULen {
			idx.substringMasterSKUs = append(idx.substringMasterSKUs, sku)
		}
	}
	sortByLengthDesc(idx.substringSKUs)
	sortByLengthDesc(idx.substringMasterSKUs)
}

// sortByLengthDesc orders longest first; equal lengths fall back to
// lexicographic order so iteration stays deterministic across loads.
func sortByLengthDesc(skus []string) {
	sort.Slice(skus, func(i, j int) bool {
		if len(skus[i]) != len(skus[j]) {
			return len(skus[i]) > len(skus[j])
		}
		return skus[i] < skus[j]
	})
}

// Lookup finds an entry by its primary SKU or, failing that, by its master
// box SKU. isMasterMatch reports which key matched.
func (idx *CatalogIndex) Lookup(sku string) (entry *models.CatalogEntry, isMasterMatch bool, found bool) {
	if entry, ok := idx.bySKU[sku]; ok {
		return entry, false, true
	}
	if entry, ok := idx.byMasterSKU[sku]; ok {
		return entry, true, true
	}
	return nil, false, false
}

// PrimarioOf returns the minimal-unit Spanish variant representing sku's
// product family. Unknown SKUs and families without such a variant map to
// themselves; the resolver never invents codes absent from the catalog.
func (idx *CatalogIndex) PrimarioOf(sku string) string {
	if primario, ok := idx.primario[sku]; ok {
		return primario
	}
	return sku
}

// ConversionFactor returns the base-unit multiplier for sku: units per
// display for retail entries, items per master box for shipping-box keys,
// and 1 for SKUs the catalog does not know (a gap, not a failure).
func (idx *CatalogIndex) ConversionFactor(sku string) int {
	entry, isMaster, found := idx.Lookup(sku)
	if !found {
		return 1
	}
	if isMaster {
		return entry.ItemsPerMasterBox
	}
	return entry.UnitsPerDisplay
}

// LongestContainedSKU finds the longest catalog SKU that is a substring of
// raw. Normal SKUs win over master SKUs; within each set, length decides.
func (idx *CatalogIndex) LongestContainedSKU(raw string) (sku string, found bool) {
	if hit, ok := firstContained(idx.substringSKUs, raw); ok {
		return hit, true
	}
	if hit, ok := firstContained(idx.substringMasterSKUs, raw); ok {
		return hit, true
	}
	return "", false
}

func firstContained(candidates []string, raw string) (string, bool) {
	for _, sku := range candidates {
		if len(sku) > len(raw) {
			continue
		}
		if strings.Contains(raw, sku) {
			return sku, true
		}
	}
	return "", false
}

// Size returns the number of indexed entries and master-box keys.
func (idx *CatalogIndex) Size() (entries int, masterKeys int) {
	return len(idx.bySKU), len(idx.byMasterSKU)
}
