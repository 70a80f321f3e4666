package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"covidstats/internal/analytics/domain"
)

// RuleSet règles d'exclusion et mode de comparaison
type RuleSet struct {
	CaseSensitive bool                   `yaml:"case_sensitive"`
	Rules         []domain.ExclusionRule `yaml:"rules"`
}

// DefaultRuleSet heuristique par défaut
func DefaultRuleSet(caseSensitive bool) RuleSet {
	return RuleSet{CaseSensitive: caseSensitive, Rules: domain.DefaultExclusionRules()}
}

// Classifier construit le classifier correspondant
func (rs RuleSet) Classifier() (*domain.Classifier, error) {
	return domain.NewClassifier(rs.Rules, rs.CaseSensitive)
}

// LoadExclusionRules lit un fichier YAML de règles
func LoadExclusionRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, err
	}
	return ParseExclusionRules(data)
}

// ParseExclusionRules décode et valide un document YAML de règles
func ParseExclusionRules(data []byte) (RuleSet, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return RuleSet{}, fmt.Errorf("%w: %v", domain.ErrInvalidRule, err)
	}
	for _, r := range set.Rules {
		if err := r.Validate(); err != nil {
			return RuleSet{}, err
		}
	}
	return set, nil
}

// ParseRuleList lit une liste "kind:pattern" séparée par des points-virgules,
// par exemple "suffix:income;prefix:w;contains:ion"
func ParseRuleList(s string) ([]domain.ExclusionRule, error) {
	var rules []domain.ExclusionRule
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kind, pattern, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not kind:pattern", domain.ErrInvalidRule, item)
		}
		rule := domain.ExclusionRule{
			Kind:    domain.RuleKind(strings.ToLower(strings.TrimSpace(kind))),
			Pattern: pattern,
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
