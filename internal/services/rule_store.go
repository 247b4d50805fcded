package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"sku-resolution-service/internal/models"
)

// Raw SKUs longer than this are never regex-tested. Rule patterns are data,
// so match time has to stay bounded even for a pathological pattern.
const maxRegexInputLen = 256

type compiledRule struct {
	rule models.MappingRule
	re   *regexp.Regexp
}

// RuleStore evaluates configurable mapping rules against a raw SKU and an
// optional sales channel. The rule list is immutable after build; like the
// catalog index it is shared by all concurrent resolvers.
type RuleStore struct {
	rules []compiledRule
}

// BuildRuleStore compiles and orders an active-rule snapshot. Rules are
// evaluated by descending priority with ascending id breaking ties. A rule
// whose regex does not compile is logged and skipped; a bad row never fails
// the whole load.
func BuildRuleStore(rules []models.MappingRule, logger *logrus.Entry) *RuleStore {
	ordered := make([]models.MappingRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	store := &RuleStore{rules: make([]compiledRule, 0, len(ordered))}
	for _, rule := range ordered {
		if !rule.Active {
			continue
		}
		if rule.QuantityMultiplier < 1 {
			rule.QuantityMultiplier = 1
		}

		compiled := compiledRule{rule: rule}
		if rule.PatternType == models.PatternRegex {
			re, err := regexp.Compile("^(?:" + rule.SourcePattern + ")$")
			if err != nil {
				logger.WithFields(logrus.Fields{
					"ruleId":  rule.ID,
					"pattern": rule.SourcePattern,
				}).WithError(err).Warn("Skipping mapping rule with malformed regex")
				continue
			}
			compiled.re = re
		}
		store.rules = append(store.rules, compiled)
	}
	return store
}

// Match finds the first rule matching rawSku for the given source. Rules are
// never combined: the first hit in priority order wins.
func (s *RuleStore) Match(rawSku, source string) (models.MappingRule, bool) {
	for _, compiled := range s.rules {
		if !compiled.rule.AppliesTo(source) {
			continue
		}
		if compiled.matches(rawSku) {
			return compiled.rule, true
		}
	}
	return models.MappingRule{}, false
}

func (c *compiledRule) matches(rawSku string) bool {
	switch c.rule.PatternType {
	case models.PatternExact:
		return rawSku == c.rule.SourcePattern
	case models.PatternPrefix:
		return strings.HasPrefix(rawSku, c.rule.SourcePattern)
	case models.PatternSuffix:
		return strings.HasSuffix(rawSku, c.rule.SourcePattern)
	case models.PatternContains:
		return strings.Contains(rawSku, c.rule.SourcePattern)
	case models.PatternRegex:
		if c.re == nil || len(rawSku) > maxRegexInputLen {
			return false
		}
		return c.re.MatchString(rawSku)
	}
	return false
}

// Size returns the number of evaluable rules in the store.
func (s *RuleStore) Size() int {
	return len(s.rules)
}
