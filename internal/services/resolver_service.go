package services

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"sku-resolution-service/internal/models"
)

// ResolverService is the single entry point for SKU resolution. Every caller
// goes through the same fixed precedence: configurable mapping rules first,
// then direct/master catalog lookup, then the legacy heuristic chain. Tiers
// are never combined; the first hit wins.
type ResolverService struct {
	catalog *Snapshot[CatalogIndex]
	rules   *Snapshot[RuleStore]
	chain   *LegacyHeuristicChain
	logger  *logrus.Entry
}

// NewResolverService creates a resolver over the shared snapshots.
func NewResolverService(catalog *Snapshot[CatalogIndex], rules *Snapshot[RuleStore], logger *logrus.Logger) *ResolverService {
	return &ResolverService{
		catalog: catalog,
		rules:   rules,
		chain:   NewLegacyHeuristicChain(),
		logger:  logger.WithField("component", "resolver"),
	}
}

// Resolve maps one raw channel SKU to its canonical catalog entry. A SKU
// nothing can place returns the unmapped result; callers treat that as a
// normal branch.
func (s *ResolverService) Resolve(rawSku, productName, source string) models.ResolutionResult {
	rawSku = strings.TrimSpace(rawSku)
	if rawSku == "" {
		return models.Unmapped()
	}

	idx, _, ok := s.catalog.Get()
	if !ok {
		// Startup refuses to serve before the first load, so this only
		// trips in tests that skip bootstrap.
		s.logger.Warn("Resolve called before first catalog snapshot")
		return models.Unmapped()
	}

	// Tier 1: configurable rules. Auditable and editable, so they win over
	// every hard-coded heuristic.
	if store, _, ok := s.rules.Get(); ok {
		if rule, found := store.Match(rawSku, source); found {
			return s.resolveRuleTarget(idx, rule)
		}
	}

	// Tier 2: the raw SKU is already canonical (or a master-box key).
	if entry, isMaster, found := idx.Lookup(rawSku); found {
		matchType := models.MatchTypeDirect
		if isMaster {
			matchType = models.MatchTypeMasterBox
		}
		return resolved(matchType, rawSku, entry, 1, 100)
	}

	// Tier 3: legacy channel quirks.
	return s.chain.Resolve(idx, rawSku, productName, source)
}

// resolveRuleTarget completes a rule hit by pulling the catalog entry for
// the configured target. A target the catalog does not know still resolves;
// ConversionFactor reports 1 for it, surfacing the gap downstream.
func (s *ResolverService) resolveRuleTarget(idx *CatalogIndex, rule models.MappingRule) models.ResolutionResult {
	entry, _, found := idx.Lookup(rule.TargetSKU)
	if !found {
		s.logger.WithFields(logrus.Fields{
			"ruleId":    rule.ID,
			"targetSku": rule.TargetSKU,
		}).Warn("Mapping rule targets an uncataloged SKU")
	}
	return models.ResolutionResult{
		ResolvedSKU:  rule.TargetSKU,
		MatchType:    models.MatchTypeRule,
		MatchLabel:   models.MatchTypeRule.Label(),
		PackQuantity: rule.QuantityMultiplier,
		Confidence:   rule.Confidence,
		Entry:        entry,
	}
}

// PrimarioOf returns the minimal-unit variant representing sku's product
// family, or sku itself when the family has none.
func (s *ResolverService) PrimarioOf(sku string) string {
	idx, _, ok := s.catalog.Get()
	if !ok {
		return sku
	}
	return idx.PrimarioOf(sku)
}

// ConversionFactor returns the base-unit multiplier for sku (1 when the
// catalog does not know it).
func (s *ResolverService) ConversionFactor(sku string) int {
	idx, _, ok := s.catalog.Get()
	if !ok {
		return 1
	}
	return idx.ConversionFactor(sku)
}

// PackQuantityFromName extracts the bundled unit count from a free-text
// product name.
func (s *ResolverService) PackQuantityFromName(productName string) int {
	return ExtractPackQuantity(productName)
}

// Loaded reports whether both snapshots have completed their first load.
func (s *ResolverService) Loaded() bool {
	_, _, catalogOK := s.catalog.Get()
	_, _, rulesOK := s.rules.Get()
	return catalogOK && rulesOK
}

// SnapshotStatus reports the state of both snapshots for the observability
// endpoints.
func (s *ResolverService) SnapshotStatus() models.SnapshotStatus {
	status := models.SnapshotStatus{
		CatalogStale:    s.catalog.Stale(),
		RulesStale:      s.rules.Stale(),
		RefreshInFlight: s.catalog.Refreshing() || s.rules.Refreshing(),
	}
	if idx, loadedAt, ok := s.catalog.Get(); ok {
		status.CatalogEntries, status.MasterVariants = idx.Size()
		status.CatalogLoadedAt = loadedAt.UTC().Format(time.RFC3339)
	}
	if store, loadedAt, ok := s.rules.Get(); ok {
		status.ActiveRules = store.Size()
		status.RulesLoadedAt = loadedAt.UTC().Format(time.RFC3339)
	}
	return status
}
