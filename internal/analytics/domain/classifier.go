package domain

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

// ErrInvalidRule règle d'exclusion mal formée
var ErrInvalidRule = errors.New("invalid exclusion rule")

// LocationClass classe dérivée d'une location
type LocationClass int

const (
	// Country continent renseigné
	Country LocationClass = iota
	// Aggregate continent vide et aucune règle d'exclusion ne correspond
	Aggregate
	// Excluded continent vide et nom reconnu comme agrégat non géographique
	Excluded
)

func (c LocationClass) String() string {
	switch c {
	case Country:
		return "country"
	case Aggregate:
		return "aggregate"
	case Excluded:
		return "excluded"
	default:
		return fmt.Sprintf("LocationClass(%d)", int(c))
	}
}

// RuleKind type de correspondance d'une règle
type RuleKind string

const (
	RulePrefix   RuleKind = "prefix"
	RuleSuffix   RuleKind = "suffix"
	RuleContains RuleKind = "contains"
)

// ExclusionRule motif appliqué au nom de la location
type ExclusionRule struct {
	Kind    RuleKind `yaml:"kind" json:"kind"`
	Pattern string   `yaml:"pattern" json:"pattern"`
}

// Validate vérifie le type et le motif
func (r ExclusionRule) Validate() error {
	switch r.Kind {
	case RulePrefix, RuleSuffix, RuleContains:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}
	if r.Pattern == "" {
		return fmt.Errorf("%w: empty %s pattern", ErrInvalidRule, r.Kind)
	}
	return nil
}

func (r ExclusionRule) String() string {
	return string(r.Kind) + ":" + r.Pattern
}

// DefaultExclusionRules heuristique calée sur le jeu de données source:
// tranches de revenus ("... income"), "World", unions régionales ("...ion")
func DefaultExclusionRules() []ExclusionRule {
	return []ExclusionRule{
		{Kind: RuleSuffix, Pattern: "income"},
		{Kind: RulePrefix, Pattern: "w"},
		{Kind: RuleContains, Pattern: "ion"},
	}
}

// Classifier classe les locations selon le continent et les règles d'exclusion.
// Fonction pure: aucun état mémorisé entre deux appels.
type Classifier struct {
	rules         []ExclusionRule
	caseSensitive bool
}

// NewClassifier crée un classifier après validation des règles
func NewClassifier(rules []ExclusionRule, caseSensitive bool) (*Classifier, error) {
	copied := make([]ExclusionRule, len(rules))
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		copied[i] = r
	}
	return &Classifier{rules: copied, caseSensitive: caseSensitive}, nil
}

// Rules retourne une copie des règles
func (c *Classifier) Rules() []ExclusionRule {
	return append([]ExclusionRule{}, c.rules...)
}

// CaseSensitive indique le mode de comparaison
func (c *Classifier) CaseSensitive() bool {
	return c.caseSensitive
}

// Classify retourne Country si le continent est renseigné, sinon Excluded
// si une règle correspond au nom, sinon Aggregate
func (c *Classifier) Classify(continent, location string) LocationClass {
	if strings.TrimSpace(continent) != "" {
		return Country
	}
	if c.Excludes(location) {
		return Excluded
	}
	return Aggregate
}

// Excludes indique si une règle correspond au nom
func (c *Classifier) Excludes(location string) bool {
	for _, r := range c.rules {
		if c.matches(r, location) {
			return true
		}
	}
	return false
}

func (c *Classifier) matches(r ExclusionRule, location string) bool {
	pattern := r.Pattern
	if !c.caseSensitive {
		location = strings.ToLower(location)
		pattern = strings.ToLower(pattern)
	}
	switch r.Kind {
	case RulePrefix:
		return strings.HasPrefix(location, pattern)
	case RuleSuffix:
		return strings.HasSuffix(location, pattern)
	case RuleContains:
		return strings.Contains(location, pattern)
	default:
		return false
	}
}

// Fingerprint identifie le jeu de règles (clé de cache des vues matérialisées)
func (c *Classifier) Fingerprint() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "cs=%t", c.caseSensitive)
	for _, r := range c.rules {
		fmt.Fprintf(h, "|%s:%q", r.Kind, r.Pattern)
	}
	return h.Sum64()
}
