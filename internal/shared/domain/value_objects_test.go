package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeasure(t *testing.T) {
	m, err := NewMeasure(12.5)
	require.NoError(t, err)
	assert.True(t, m.Present())
	assert.Equal(t, 12.5, m.Value())

	neg, err := NewMeasure(-1)
	require.NoError(t, err)
	assert.True(t, neg.Present())
	assert.Equal(t, -1.0, neg.Value())

	_, err = NewMeasure(math.NaN())
	assert.Error(t, err)
	_, err = NewMeasure(math.Inf(1))
	assert.Error(t, err)

	assert.Panics(t, func() { MustNewMeasure(math.Inf(-1)) })
}

func TestMeasure_Missing(t *testing.T) {
	m := MissingMeasure()
	assert.False(t, m.Present())
	assert.Equal(t, 0.0, m.Value())
	assert.Nil(t, m.Float64Ptr())
	assert.Nil(t, m.Int64Ptr())
}

func TestMeasure_AddAndMax(t *testing.T) {
	a := MustNewMeasure(10)
	missing := MissingMeasure()

	sum := a.Add(missing)
	assert.True(t, sum.Present())
	assert.Equal(t, 10.0, sum.Value())
	assert.False(t, missing.Add(missing).Present())

	assert.Equal(t, 10.0, missing.Max(a).Value())
	assert.Equal(t, 10.0, a.Max(missing).Value())
	assert.Equal(t, 15.0, a.Max(MustNewMeasure(15)).Value())

	require.NotNil(t, MustNewMeasure(42.9).Int64Ptr())
	assert.Equal(t, int64(42), *MustNewMeasure(42.9).Int64Ptr())
}

func TestPercentOf(t *testing.T) {
	r := PercentOf(MustNewMeasure(5), MustNewMeasure(200))
	v, ok := r.Value()
	require.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	tests := []struct {
		name        string
		part, whole Measure
	}{
		{"zero denominator", MustNewMeasure(5), MustNewMeasure(0)},
		{"missing denominator", MustNewMeasure(5), MissingMeasure()},
		{"missing numerator", MissingMeasure(), MustNewMeasure(100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PercentOf(tt.part, tt.whole)
			assert.False(t, r.Defined())
			assert.Nil(t, r.Float64Ptr())
		})
	}
}

func TestRatio_JSONAndOrdering(t *testing.T) {
	data, err := json.Marshal(struct {
		A Ratio `json:"a"`
		B Ratio `json:"b"`
	}{A: PercentOf(MustNewMeasure(1), MustNewMeasure(4)), B: UndefinedRatio()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":25,"b":null}`, string(data))

	high := PercentOf(MustNewMeasure(3), MustNewMeasure(4))
	low := PercentOf(MustNewMeasure(1), MustNewMeasure(4))
	assert.True(t, high.Greater(low))
	assert.False(t, low.Greater(high))
	assert.True(t, low.Greater(UndefinedRatio()))
	assert.False(t, UndefinedRatio().Greater(low))
}

func TestDateRange(t *testing.T) {
	start := time.Date(2021, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC)

	dr, err := NewDateRange(start, end)
	require.NoError(t, err)
	assert.Equal(t, 10, dr.Days())
	assert.True(t, dr.Contains(time.Date(2021, 1, 5, 23, 0, 0, 0, time.UTC)))
	assert.False(t, dr.Contains(time.Date(2021, 1, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2021-01-01..2021-01-10", dr.String())

	_, err = NewDateRange(end, start)
	assert.Error(t, err)
}

func TestDateRange_Extend(t *testing.T) {
	var dr DateRange
	assert.True(t, dr.IsZero())
	assert.Equal(t, 0, dr.Days())

	dr = dr.Extend(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))
	dr = dr.Extend(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC))
	dr = dr.Extend(time.Date(2021, 2, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2021-02-01..2021-03-01", dr.String())
	assert.Equal(t, 29, dr.Days())
}

// BenchmarkPercentOf calcul de taux sur le chemin chaud des vues
func BenchmarkPercentOf(b *testing.B) {
	part, whole := MustNewMeasure(1234), MustNewMeasure(331000000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = PercentOf(part, whole)
	}
}
