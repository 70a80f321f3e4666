package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t testing.TB) *Classifier {
	c, err := NewClassifier(DefaultExclusionRules(), false)
	require.NoError(t, err)
	return c
}

func TestClassifier_Classify(t *testing.T) {
	c := defaultClassifier(t)

	tests := []struct {
		continent string
		location  string
		want      LocationClass
	}{
		{"Europe", "France", Country},
		{"North America", "United States", Country},
		// un continent renseigné prime sur les règles
		{"Europe", "Wales", Country},
		{"", "Asia", Aggregate},
		{"", "Africa", Aggregate},
		{"  ", "Oceania", Aggregate},
		{"", "World", Excluded},
		{"", "High income", Excluded},
		{"", "Lower middle income", Excluded},
		{"", "European Union", Excluded},
		{"", "International", Excluded},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.continent, tt.location))
		})
	}
}

func TestClassifier_CaseSensitive(t *testing.T) {
	c, err := NewClassifier([]ExclusionRule{{Kind: RulePrefix, Pattern: "w"}}, true)
	require.NoError(t, err)

	assert.True(t, c.CaseSensitive())
	assert.Equal(t, Aggregate, c.Classify("", "World"))
	assert.Equal(t, Excluded, c.Classify("", "world"))
}

func TestNewClassifier_InvalidRules(t *testing.T) {
	_, err := NewClassifier([]ExclusionRule{{Kind: "regex", Pattern: ".*"}}, false)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewClassifier([]ExclusionRule{{Kind: RuleSuffix, Pattern: ""}}, false)
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestClassifier_NoRules(t *testing.T) {
	c, err := NewClassifier(nil, false)
	require.NoError(t, err)
	assert.Equal(t, Aggregate, c.Classify("", "World"))
	assert.Empty(t, c.Rules())
}

func TestClassifier_RulesIsACopy(t *testing.T) {
	c := defaultClassifier(t)
	rules := c.Rules()
	rules[0].Pattern = "mutated"

	assert.Equal(t, "income", c.Rules()[0].Pattern)
}

func TestClassifier_Fingerprint(t *testing.T) {
	a := defaultClassifier(t)
	b := defaultClassifier(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	sensitive, err := NewClassifier(DefaultExclusionRules(), true)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), sensitive.Fingerprint())

	fewer, err := NewClassifier(DefaultExclusionRules()[:2], false)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), fewer.Fingerprint())
}

func TestLocationClass_String(t *testing.T) {
	assert.Equal(t, "country", Country.String())
	assert.Equal(t, "aggregate", Aggregate.String())
	assert.Equal(t, "excluded", Excluded.String())
	assert.Equal(t, "LocationClass(7)", LocationClass(7).String())
	assert.Equal(t, "suffix:income", DefaultExclusionRules()[0].String())
}

// BenchmarkClassifier_Classify classement d'un agrégat (pire cas: toutes les règles)
func BenchmarkClassifier_Classify(b *testing.B) {
	c := defaultClassifier(b)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Classify("", "South America")
	}
}
