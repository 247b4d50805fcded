package services

import (
	"regexp"
	"strconv"
	"strings"

	"sku-resolution-service/internal/models"
)

// Historically-observed channel quirks, evaluated in a fixed order after the
// rule store and the direct catalog lookups come up empty. Every candidate
// SKU a step produces is validated against the catalog before it is
// accepted; an uncataloged candidate just moves the chain along.

const (
	anuPrefix  = "ANU-"
	packPrefix = "PACK"
	webSuffix  = "_WEB"
)

// packQuantityPattern extracts the bundled unit count from free-text product
// names such as "Granola Pack 5".
var packQuantityPattern = regexp.MustCompile(`(?i)pack\s*(\d+)`)

// trailingDigitPattern rewrites the last five digits of a legacy variant
// code to the canonical "...10" form (e.g. 04030 -> 04010).
var trailingDigitPattern = regexp.MustCompile(`^(.*\d{3})\d0$`)

// crackerAbbrevPattern matches the short cracker codes some storefronts
// emit in place of the full SKU (e.g. CRQU1UES).
var crackerAbbrevPattern = regexp.MustCompile(`^CR[A-Z]{2}1UES$`)

// crackerAbbrevOverrides captures two channel-specific abbreviation quirks
// that do not follow the generic CRxx expansion. Checked before the pattern.
var crackerAbbrevOverrides = map[string]string{
	"CRSA1UES": "CRSM_U13510",
	"CRSO1UES": "CRSM_U13510",
}

// literalOverrides are single-SKU historical corrections.
var literalOverrides = map[string]string{
	"CRSM_U1000":      "CRSM_U1000H",
	"KEEPER_PIONEROS": "KPMC_U30010",
}

// mercadoLibrePublications maps marketplace publication IDs to catalog SKUs
// for listings created before SKU fields were mandatory.
// TODO: fold this table into mapping_rules with a source filter so it has
// the same configuration surface as every other mapping.
var mercadoLibrePublications = map[string]string{
	"MLC612447801": "GRCA_U26010",
	"MLC598230114": "BAMC_U04010",
	"MLC601118356": "CRSM_U13510",
	"MLC644902773": "KPMC_U30010",
}

const mercadoLibreSource = "mercadolibre"

// LegacyHeuristicChain recovers matches for raw SKUs that neither the rule
// store nor the direct catalog lookups can resolve.
type LegacyHeuristicChain struct{}

// NewLegacyHeuristicChain creates the chain. It is stateless; all catalog
// knowledge comes from the index passed per call.
func NewLegacyHeuristicChain() *LegacyHeuristicChain {
	return &LegacyHeuristicChain{}
}

// Resolve runs the chain against one raw SKU. It returns the unmapped
// result when no step produces a cataloged SKU; that is a normal outcome,
// not an error.
func (c *LegacyHeuristicChain) Resolve(idx *CatalogIndex, rawSku, productName, source string) models.ResolutionResult {
	// Steps 1-2: direct and master-box exact matches. Already tried
	// upstream by the resolver; kept as a guard so the chain is also
	// correct when called standalone.
	if entry, isMaster, ok := idx.Lookup(rawSku); ok {
		if isMaster {
			return resolved(models.MatchTypeMasterBox, rawSku, entry, 1, 100)
		}
		return resolved(models.MatchTypeDirect, rawSku, entry, 1, 100)
	}

	if result, ok := c.stripAnuPrefix(idx, rawSku); ok {
		return result
	}
	if result, ok := c.stripPackPrefix(idx, rawSku, productName); ok {
		return result
	}
	if result, ok := c.stripWebSuffix(idx, rawSku); ok {
		return result
	}
	if result, ok := c.rewriteTrailing20(idx, rawSku); ok {
		return result
	}
	if result, ok := c.rewriteTrailingDigits(idx, rawSku); ok {
		return result
	}
	if result, ok := c.expandCrackerAbbrev(idx, rawSku); ok {
		return result
	}
	if result, ok := c.applyLiteralOverride(idx, rawSku); ok {
		return result
	}
	if result, ok := c.rewriteLanguageVariant(idx, rawSku); ok {
		return result
	}
	if result, ok := c.matchSubstring(idx, rawSku); ok {
		return result
	}
	if result, ok := c.lookupMarketplacePublication(idx, rawSku, source); ok {
		return result
	}

	return models.Unmapped()
}

// Step 3: strip the legacy export prefix "ANU-"; if the remainder still
// carries the storefront suffix, strip that too (chained transform).
func (c *LegacyHeuristicChain) stripAnuPrefix(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	if !strings.HasPrefix(rawSku, anuPrefix) {
		return models.ResolutionResult{}, false
	}
	candidate := strings.TrimPrefix(rawSku, anuPrefix)
	if entry, _, ok := idx.Lookup(candidate); ok {
		return resolved(models.MatchTypeAnuPrefix, candidate, entry, 1, 95), true
	}
	if strings.HasSuffix(candidate, webSuffix) {
		chained := strings.TrimSuffix(candidate, webSuffix)
		if entry, _, ok := idx.Lookup(chained); ok {
			return resolved(models.MatchTypeAnuPrefix, chained, entry, 1, 93), true
		}
	}
	return models.ResolutionResult{}, false
}

// Step 4: strip the "PACK" prefix and recover the bundled quantity from the
// product name ("Pack <N>"), defaulting to 1 when the name is silent.
func (c *LegacyHeuristicChain) stripPackPrefix(idx *CatalogIndex, rawSku, productName string) (models.ResolutionResult, bool) {
	if !strings.HasPrefix(rawSku, packPrefix) {
		return models.ResolutionResult{}, false
	}
	candidate := strings.TrimPrefix(rawSku, packPrefix)
	entry, _, ok := idx.Lookup(candidate)
	if !ok {
		return models.ResolutionResult{}, false
	}
	return resolved(models.MatchTypePackPrefix, candidate, entry, ExtractPackQuantity(productName), 90), true
}

// Step 5: strip the trailing "_WEB" storefront suffix.
func (c *LegacyHeuristicChain) stripWebSuffix(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	if !strings.HasSuffix(rawSku, webSuffix) {
		return models.ResolutionResult{}, false
	}
	candidate := strings.TrimSuffix(rawSku, webSuffix)
	if entry, _, ok := idx.Lookup(candidate); ok {
		return resolved(models.MatchTypeWebSuffix, candidate, entry, 1, 96), true
	}
	return models.ResolutionResult{}, false
}

// Step 6: rewrite a trailing "20" variant code to "10", skipping SKUs that
// already end in the canonical 010/020 codes.
func (c *LegacyHeuristicChain) rewriteTrailing20(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	if !strings.HasSuffix(rawSku, "20") ||
		strings.HasSuffix(rawSku, "010") || strings.HasSuffix(rawSku, "020") {
		return models.ResolutionResult{}, false
	}
	candidate := rawSku[:len(rawSku)-2] + "10"
	if entry, _, ok := idx.Lookup(candidate); ok {
		return resolved(models.MatchTypeTrailing20, candidate, entry, 1, 90), true
	}
	return models.ResolutionResult{}, false
}

// Step 7: structural rewrite of the five-digit variant tail to "...10".
func (c *LegacyHeuristicChain) rewriteTrailingDigits(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	groups := trailingDigitPattern.FindStringSubmatch(rawSku)
	if groups == nil {
		return models.ResolutionResult{}, false
	}
	candidate := groups[1] + "10"
	if candidate == rawSku {
		return models.ResolutionResult{}, false
	}
	if entry, _, ok := idx.Lookup(candidate); ok {
		return resolved(models.MatchTypeDigitRewrite, candidate, entry, 1, 90), true
	}
	return models.ResolutionResult{}, false
}

// Step 8: expand two-letter cracker abbreviations to the canonical _U13510
// SKU. The override table wins over the generic pattern.
func (c *LegacyHeuristicChain) expandCrackerAbbrev(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	if candidate, ok := crackerAbbrevOverrides[rawSku]; ok {
		if entry, _, found := idx.Lookup(candidate); found {
			return resolved(models.MatchTypeCrackerAbbrev, candidate, entry, 1, 95), true
		}
	}
	if !crackerAbbrevPattern.MatchString(rawSku) {
		return models.ResolutionResult{}, false
	}
	candidate := rawSku[:4] + "_U13510"
	if entry, _, ok := idx.Lookup(candidate); ok {
		return resolved(models.MatchTypeCrackerAbbrev, candidate, entry, 1, 90), true
	}
	return models.ResolutionResult{}, false
}

// Steps 9-10: single-literal historical overrides.
func (c *LegacyHeuristicChain) applyLiteralOverride(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	candidate, ok := literalOverrides[rawSku]
	if !ok {
		return models.ResolutionResult{}, false
	}
	if entry, _, found := idx.Lookup(candidate); found {
		return resolved(models.MatchTypeLiteralOverride, candidate, entry, 1, 95), true
	}
	return models.ResolutionResult{}, false
}

// Step 11: rewrite the _C02010 language-variant suffix to _C02020.
func (c *LegacyHeuristicChain) rewriteLanguageVariant(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	if !strings.HasSuffix(rawSku, "_C02010") {
		return models.ResolutionResult{}, false
	}
	candidate := strings.TrimSuffix(rawSku, "_C02010") + "_C02020"
	if entry, _, ok := idx.Lookup(candidate); ok {
		return resolved(models.MatchTypeLanguageVariant, candidate, entry, 1, 90), true
	}
	return models.ResolutionResult{}, false
}

// Step 12: accept any catalog SKU contained in the raw value; the longest
// candidate wins, normal SKUs before master-box keys.
func (c *LegacyHeuristicChain) matchSubstring(idx *CatalogIndex, rawSku string) (models.ResolutionResult, bool) {
	candidate, ok := idx.LongestContainedSKU(rawSku)
	if !ok {
		return models.ResolutionResult{}, false
	}
	entry, _, _ := idx.Lookup(candidate)
	return resolved(models.MatchTypeSubstring, candidate, entry, 1, 85), true
}

// Step 13: per-marketplace publication-ID table, MercadoLibre only.
func (c *LegacyHeuristicChain) lookupMarketplacePublication(idx *CatalogIndex, rawSku, source string) (models.ResolutionResult, bool) {
	if !strings.EqualFold(source, mercadoLibreSource) {
		return models.ResolutionResult{}, false
	}
	candidate, ok := mercadoLibrePublications[rawSku]
	if !ok {
		return models.ResolutionResult{}, false
	}
	if entry, _, found := idx.Lookup(candidate); found {
		return resolved(models.MatchTypeMarketplaceLookup, candidate, entry, 1, 85), true
	}
	return models.ResolutionResult{}, false
}

// ExtractPackQuantity pulls the bundled unit count out of a free-text
// product name, defaulting to 1 when no "Pack <N>" marker is present.
func ExtractPackQuantity(productName string) int {
	groups := packQuantityPattern.FindStringSubmatch(productName)
	if groups == nil {
		return 1
	}
	quantity, err := strconv.Atoi(groups[1])
	if err != nil || quantity < 1 {
		return 1
	}
	return quantity
}

func resolved(matchType models.MatchType, sku string, entry *models.CatalogEntry, packQuantity, confidence int) models.ResolutionResult {
	return models.ResolutionResult{
		ResolvedSKU:  sku,
		MatchType:    matchType,
		MatchLabel:   matchType.Label(),
		PackQuantity: packQuantity,
		Confidence:   confidence,
		Entry:        entry,
	}
}
