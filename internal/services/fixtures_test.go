package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"sku-resolution-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func strPtr(s string) *string {
	return &s
}

// testEntries is a small but representative catalog: minimal units,
// displays, a master-box key, a display variant and a language variant.
func testEntries() []models.CatalogEntry {
	return []models.CatalogEntry{
		{
			SKU:             "BAKC_U04010",
			BaseCode:        "BAKC",
			Category:        "Crackers",
			ProductName:     "Kale Crackers",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "BAKC_U20010",
			BaseCode:        "BAKC",
			Category:        "Crackers",
			ProductName:     "Kale Crackers Display 20",
			UnitsPerDisplay: 20,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:               "BAMC_U04010",
			MasterSKU:         strPtr("CJBAMC_U04010"),
			BaseCode:          "BAMC",
			Category:          "Bars",
			ProductName:       "Almond Bars",
			UnitsPerDisplay:   1,
			ItemsPerMasterBox: 140,
			Language:          models.LanguageSpanish,
			Active:            true,
		},
		{
			SKU:             "GRCA_U26010",
			BaseCode:        "GRCA",
			Category:        "Granola",
			ProductName:     "Granola Almendras",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "GRCA_U26010D",
			BaseCode:        "GRCA",
			Category:        "Granola",
			ProductName:     "Granola Almendras Display",
			UnitsPerDisplay: 5,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "GRCA_U26110",
			BaseCode:        "GRCA1",
			Category:        "Granola",
			ProductName:     "Granola Coco",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "CRSM_U13510",
			BaseCode:        "CRSM",
			Category:        "Crackers",
			ProductName:     "Crackers Semillas",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "CRQU_U13510",
			BaseCode:        "CRQU",
			Category:        "Crackers",
			ProductName:     "Crackers Quinoa",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "CRSM_U1000H",
			BaseCode:        "CRSMH",
			Category:        "Crackers",
			ProductName:     "Crackers Semillas Horneadas",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "KPMC_U30010",
			BaseCode:        "KPMC",
			Category:        "Keeper",
			ProductName:     "Keeper Mani Chocolate",
			UnitsPerDisplay: 1,
			Language:        models.LanguageSpanish,
			Active:          true,
		},
		{
			SKU:             "MENU_C02020",
			BaseCode:        "MENU",
			Category:        "Mixes",
			ProductName:     "Mix Ensalada EN",
			UnitsPerDisplay: 1,
			Language:        models.LanguageEnglish,
			Active:          true,
		},
	}
}

func buildTestIndex() *CatalogIndex {
	return BuildCatalogIndex(testEntries(), testLogger().WithField("component", "test"))
}

func newCatalogSnapshot(entries []models.CatalogEntry) *Snapshot[CatalogIndex] {
	snapshot := NewSnapshot[CatalogIndex](time.Minute)
	_ = snapshot.Refresh(context.Background(), func(context.Context) (*CatalogIndex, error) {
		return BuildCatalogIndex(entries, testLogger().WithField("component", "test")), nil
	})
	return snapshot
}

func newRuleSnapshot(rules []models.MappingRule) *Snapshot[RuleStore] {
	snapshot := NewSnapshot[RuleStore](time.Minute)
	_ = snapshot.Refresh(context.Background(), func(context.Context) (*RuleStore, error) {
		return BuildRuleStore(rules, testLogger().WithField("component", "test")), nil
	})
	return snapshot
}
