package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shareddomain "covidstats/internal/shared/domain"
)

type point struct {
	loc   string
	date  time.Time
	value shareddomain.Measure
	tag   int
}

var pointSpec = WindowSpec[point]{
	Partition: func(p point) string { return p.loc },
	Order:     func(p point) time.Time { return p.date },
	Value:     func(p point) shareddomain.Measure { return p.value },
}

func pt(loc string, d int, v float64, tag int) point {
	return point{loc: loc, date: day(d), value: shareddomain.MustNewMeasure(v), tag: tag}
}

func cumulatives(rows []Windowed[point]) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Cumulative
	}
	return out
}

func TestRunningTotal_SinglePartition(t *testing.T) {
	out := RunningTotal([]point{pt("US", 2, 5, 0), pt("US", 1, 10, 1)}, pointSpec)

	require.Len(t, out, 2)
	assert.Equal(t, day(1), out[0].Row.date)
	assert.Equal(t, []float64{10, 15}, cumulatives(out))
}

func TestRunningTotal_NoLeakAcrossPartitions(t *testing.T) {
	rows := []point{
		pt("US", 1, 10, 0),
		pt("France", 1, 1, 1),
		pt("US", 2, 5, 2),
		pt("France", 2, 2, 3),
	}
	out := RunningTotal(rows, pointSpec)

	require.Len(t, out, 4)
	assert.Equal(t, "France", out[0].Row.loc)
	assert.Equal(t, "France", out[1].Row.loc)
	assert.Equal(t, "US", out[2].Row.loc)
	assert.Equal(t, []float64{1, 3, 10, 15}, cumulatives(out))
}

func TestRunningTotal_MissingCountsAsZero(t *testing.T) {
	rows := []point{
		pt("Chile", 1, 4, 0),
		{loc: "Chile", date: day(2), value: shareddomain.MissingMeasure()},
		pt("Chile", 3, 1, 2),
	}
	assert.Equal(t, []float64{4, 4, 5}, cumulatives(RunningTotal(rows, pointSpec)))
}

func TestRunningTotal_NegativeCorrection(t *testing.T) {
	rows := []point{pt("Chile", 1, 10, 0), pt("Chile", 2, -4, 1), pt("Chile", 3, 1, 2)}
	assert.Equal(t, []float64{10, 6, 7}, cumulatives(RunningTotal(rows, pointSpec)))
}

func TestRunningTotal_StableOnTies(t *testing.T) {
	rows := []point{pt("Peru", 1, 1, 0), pt("Peru", 1, 2, 1), pt("Peru", 1, 3, 2)}
	out := RunningTotal(rows, pointSpec)

	for i, r := range out {
		assert.Equal(t, i, r.Row.tag)
	}
	assert.Equal(t, []float64{1, 3, 6}, cumulatives(out))
}

func TestRunningTotal_Monotone(t *testing.T) {
	var rows []point
	for d := 1; d <= 28; d++ {
		rows = append(rows, pt("Peru", d, float64(d%3), d))
	}
	out := RunningTotal(rows, pointSpec)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i].Cumulative, out[i-1].Cumulative)
	}
}

func TestRunningTotal_Empty(t *testing.T) {
	assert.Empty(t, RunningTotal(nil, pointSpec))
}

func TestPartitions_Offsets(t *testing.T) {
	parts := Partitions([]point{pt("B", 1, 1, 0), pt("A", 1, 1, 1), pt("B", 2, 1, 2)}, pointSpec)

	require.Len(t, parts, 2)
	assert.Equal(t, "A", parts[0].Key)
	assert.Equal(t, 0, parts[0].Offset)
	assert.Equal(t, "B", parts[1].Key)
	assert.Equal(t, 1, parts[1].Offset)
	assert.Len(t, parts[1].Rows, 2)
}

func TestCompareLocationDate(t *testing.T) {
	assert.Negative(t, CompareLocationDate("A", day(5), "B", day(1)))
	assert.Positive(t, CompareLocationDate("A", day(5), "A", day(1)))
	assert.Zero(t, CompareLocationDate("A", day(1), "A", day(1)))
}

// BenchmarkRunningTotal somme cumulée de 200 partitions × 300 jours
func BenchmarkRunningTotal(b *testing.B) {
	var rows []point
	for l := 0; l < 200; l++ {
		loc := string(rune('A'+l%26)) + string(rune('a'+l/26))
		for d := 0; d < 300; d++ {
			rows = append(rows, point{loc: loc, date: day(1).AddDate(0, 0, d), value: shareddomain.MustNewMeasure(float64(d % 7))})
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = RunningTotal(rows, pointSpec)
	}
}
