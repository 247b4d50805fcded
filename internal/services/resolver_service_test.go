package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sku-resolution-service/internal/models"
)

func newTestResolver(rules []models.MappingRule) *ResolverService {
	return NewResolverService(
		newCatalogSnapshot(testEntries()),
		newRuleSnapshot(rules),
		testLogger(),
	)
}

func TestResolveDirectMatchIsIdempotent(t *testing.T) {
	resolver := newTestResolver(nil)

	for _, entry := range testEntries() {
		result := resolver.Resolve(entry.SKU, "", "")
		require.True(t, result.Resolved(), entry.SKU)
		assert.Equal(t, entry.SKU, result.ResolvedSKU)
		assert.Equal(t, models.MatchTypeDirect, result.MatchType)
		assert.Equal(t, 100, result.Confidence)
	}
}

func TestResolveEmptySKU(t *testing.T) {
	resolver := newTestResolver(nil)

	for _, raw := range []string{"", "   ", "\t\n"} {
		result := resolver.Resolve(raw, "", "")
		assert.False(t, result.Resolved())
		assert.Equal(t, models.MatchTypeUnmapped, result.MatchType)
	}
}

func TestResolveTrimsWhitespace(t *testing.T) {
	resolver := newTestResolver(nil)

	result := resolver.Resolve("  BAKC_U04010  ", "", "")
	assert.Equal(t, "BAKC_U04010", result.ResolvedSKU)
	assert.Equal(t, models.MatchTypeDirect, result.MatchType)
}

func TestResolveRuleWinsOverDirectMatch(t *testing.T) {
	// The rule store is configurable and auditable, so it takes
	// precedence even over a raw SKU that exists in the catalog.
	resolver := newTestResolver([]models.MappingRule{
		{
			ID:                 1,
			SourcePattern:      "BAKC_U04010",
			PatternType:        models.PatternExact,
			TargetSKU:          "GRCA_U26010",
			QuantityMultiplier: 3,
			Confidence:         88,
			Active:             true,
		},
	})

	result := resolver.Resolve("BAKC_U04010", "", "")
	require.True(t, result.Resolved())
	assert.Equal(t, models.MatchTypeRule, result.MatchType)
	assert.Equal(t, "GRCA_U26010", result.ResolvedSKU)
	assert.Equal(t, 3, result.PackQuantity)
	assert.Equal(t, 88, result.Confidence)
	require.NotNil(t, result.Entry)
	assert.Equal(t, "GRCA_U26010", result.Entry.SKU)
}

func TestResolveRuleWinsOverLegacyChain(t *testing.T) {
	resolver := newTestResolver([]models.MappingRule{
		{
			ID:            1,
			SourcePattern: "ANU-",
			PatternType:   models.PatternPrefix,
			TargetSKU:     "CRSM_U13510",
			Confidence:    70,
			Active:        true,
		},
	})

	// Without the rule, the chain would strip ANU- and land on
	// BAMC_U04010 with confidence 95.
	result := resolver.Resolve("ANU-BAMC_U04010", "", "")
	assert.Equal(t, models.MatchTypeRule, result.MatchType)
	assert.Equal(t, "CRSM_U13510", result.ResolvedSKU)
}

func TestResolveRuleTargetingUncatalogedSKU(t *testing.T) {
	resolver := newTestResolver([]models.MappingRule{
		{
			ID:            1,
			SourcePattern: "LEGACY-X",
			PatternType:   models.PatternExact,
			TargetSKU:     "GONE_U00010",
			Confidence:    60,
			Active:        true,
		},
	})

	result := resolver.Resolve("LEGACY-X", "", "")
	require.True(t, result.Resolved())
	assert.Equal(t, "GONE_U00010", result.ResolvedSKU)
	assert.Nil(t, result.Entry)
	assert.Equal(t, 1, resolver.ConversionFactor("GONE_U00010"), "catalog gap converts 1:1")
}

func TestResolveFallsThroughToLegacyChain(t *testing.T) {
	resolver := newTestResolver(nil)

	result := resolver.Resolve("ANU-BAMC_U04010", "", "")
	assert.Equal(t, models.MatchTypeAnuPrefix, result.MatchType)
	assert.Equal(t, "BAMC_U04010", result.ResolvedSKU)
	assert.Equal(t, 95, result.Confidence)

	result = resolver.Resolve("PACKGRCA_U26010", "Granola Pack 5", "")
	assert.Equal(t, "GRCA_U26010", result.ResolvedSKU)
	assert.Equal(t, 5, result.PackQuantity)
	assert.Equal(t, 90, result.Confidence)
}

func TestResolveBeforeFirstSnapshot(t *testing.T) {
	resolver := NewResolverService(
		NewSnapshot[CatalogIndex](0),
		NewSnapshot[RuleStore](0),
		testLogger(),
	)

	result := resolver.Resolve("BAKC_U04010", "", "")
	assert.False(t, result.Resolved())
	assert.False(t, resolver.Loaded())
}

func TestResolverPrimarioAndConversionDelegation(t *testing.T) {
	resolver := newTestResolver(nil)

	assert.Equal(t, "BAKC_U04010", resolver.PrimarioOf("BAKC_U20010"))
	assert.Equal(t, "BAKC_U20010", NewResolverService(
		NewSnapshot[CatalogIndex](0), NewSnapshot[RuleStore](0), testLogger(),
	).PrimarioOf("BAKC_U20010"), "unloaded snapshot returns the input unchanged")

	assert.Equal(t, 140, resolver.ConversionFactor("CJBAMC_U04010"))
	assert.Equal(t, 5, resolver.PackQuantityFromName("Barritas Pack 5"))
}

func TestResolverSnapshotStatus(t *testing.T) {
	resolver := newTestResolver([]models.MappingRule{
		{ID: 1, SourcePattern: "A", PatternType: models.PatternExact, TargetSKU: "B", Active: true},
	})

	status := resolver.SnapshotStatus()
	assert.Equal(t, len(testEntries()), status.CatalogEntries)
	assert.Equal(t, 1, status.MasterVariants)
	assert.Equal(t, 1, status.ActiveRules)
	assert.NotEmpty(t, status.CatalogLoadedAt)
	assert.False(t, status.CatalogStale)
}

func TestResolveConcurrentCallersAgree(t *testing.T) {
	resolver := newTestResolver(nil)

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = resolver.Resolve("ANU-BAMC_U04010", "", "").ResolvedSKU
		}(i)
	}
	wg.Wait()

	for _, sku := range results {
		assert.Equal(t, "BAMC_U04010", sku)
	}
}
