package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sku-resolution-service/internal/models"
)

func TestCatalogIndexLookup(t *testing.T) {
	idx := buildTestIndex()

	entry, isMaster, found := idx.Lookup("BAKC_U04010")
	require.True(t, found)
	assert.False(t, isMaster)
	assert.Equal(t, "BAKC_U04010", entry.SKU)

	entry, isMaster, found = idx.Lookup("CJBAMC_U04010")
	require.True(t, found)
	assert.True(t, isMaster)
	assert.Equal(t, "BAMC_U04010", entry.SKU)

	_, _, found = idx.Lookup("NOPE_U00000")
	assert.False(t, found)
}

func TestCatalogIndexDropsInvalidEntries(t *testing.T) {
	entries := []models.CatalogEntry{
		{SKU: "GOOD_U01010", BaseCode: "GOOD", UnitsPerDisplay: 1, Language: models.LanguageSpanish},
		{SKU: "", BaseCode: "EMPTY", UnitsPerDisplay: 1},
		{SKU: "BADU_U01010", BaseCode: "BADU", UnitsPerDisplay: 0},
		{SKU: "BADM_U01010", BaseCode: "BADM", UnitsPerDisplay: 1, MasterSKU: strPtr("CJBADM"), ItemsPerMasterBox: 0},
	}

	idx := BuildCatalogIndex(entries, testLogger().WithField("component", "test"))

	size, masterKeys := idx.Size()
	assert.Equal(t, 1, size)
	assert.Equal(t, 0, masterKeys)

	_, _, found := idx.Lookup("GOOD_U01010")
	assert.True(t, found)
	_, _, found = idx.Lookup("BADU_U01010")
	assert.False(t, found)
}

func TestCatalogIndexDuplicateSKUKeepsFirst(t *testing.T) {
	entries := []models.CatalogEntry{
		{SKU: "DUPL_U01010", BaseCode: "A", ProductName: "first", UnitsPerDisplay: 1},
		{SKU: "DUPL_U01010", BaseCode: "B", ProductName: "second", UnitsPerDisplay: 2},
	}

	idx := BuildCatalogIndex(entries, testLogger().WithField("component", "test"))

	entry, _, found := idx.Lookup("DUPL_U01010")
	require.True(t, found)
	assert.Equal(t, "first", entry.ProductName)
}

func TestPrimarioOf(t *testing.T) {
	idx := buildTestIndex()

	// The display variant maps to the family's Spanish minimal unit.
	assert.Equal(t, "BAKC_U04010", idx.PrimarioOf("BAKC_U20010"))
	assert.Equal(t, "BAKC_U04010", idx.PrimarioOf("BAKC_U04010"))
	assert.Equal(t, "GRCA_U26010", idx.PrimarioOf("GRCA_U26010D"))

	// A family with no Spanish minimal unit resolves to itself.
	assert.Equal(t, "MENU_C02020", idx.PrimarioOf("MENU_C02020"))

	// Unknown SKUs never get invented codes.
	assert.Equal(t, "ZZZZ_U99999", idx.PrimarioOf("ZZZZ_U99999"))
}

func TestConversionFactor(t *testing.T) {
	idx := buildTestIndex()

	assert.Equal(t, 1, idx.ConversionFactor("BAKC_U04010"))
	assert.Equal(t, 20, idx.ConversionFactor("BAKC_U20010"))
	assert.Equal(t, 140, idx.ConversionFactor("CJBAMC_U04010"), "master key uses items per master box")
	assert.Equal(t, 1, idx.ConversionFactor("UNKNOWN_SKU"), "catalog gaps convert 1:1")
}

func TestLongestContainedSKU(t *testing.T) {
	idx := buildTestIndex()

	// Both GRCA_U26010 and GRCA_U26010D are contained; the longest wins.
	sku, found := idx.LongestContainedSKU("PROMO-GRCA_U26010D-2024")
	require.True(t, found)
	assert.Equal(t, "GRCA_U26010D", sku)

	sku, found = idx.LongestContainedSKU("MLX-GRCA_U26010-SPECIAL")
	require.True(t, found)
	assert.Equal(t, "GRCA_U26010", sku)

	// Normal SKUs are tried before master-box keys, even shorter ones.
	sku, found = idx.LongestContainedSKU("X-CJBAMC_U04010-X")
	require.True(t, found)
	assert.Equal(t, "BAMC_U04010", sku)

	_, found = idx.LongestContainedSKU("SHORT")
	assert.False(t, found)
}
