package domain

import (
	"cmp"
	"slices"
	"time"

	shareddomain "covidstats/internal/shared/domain"
)

// WindowSpec définit une somme cumulée: partition, ordre et valeur
type WindowSpec[T any] struct {
	Partition func(T) string
	Order     func(T) time.Time
	Value     func(T) shareddomain.Measure
}

// Windowed ligne accompagnée de sa valeur cumulée
type Windowed[T any] struct {
	Row        T
	Cumulative float64
}

// Partition groupe de lignes d'une même clé, triées par date
type Partition[T any] struct {
	Key  string
	Rows []T
	// Offset position de la première ligne de la partition dans la sortie
	Offset int
}

// Partitions groupe les lignes par clé de partition. Les partitions sont
// triées par clé croissante, les lignes par date croissante; à date égale
// l'ordre d'entrée est conservé (tri stable).
func Partitions[T any](rows []T, spec WindowSpec[T]) []Partition[T] {
	groups := make(map[string][]T)
	keys := make([]string, 0)
	for _, r := range rows {
		k := spec.Partition(r)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	slices.Sort(keys)

	parts := make([]Partition[T], 0, len(keys))
	offset := 0
	for _, k := range keys {
		group := groups[k]
		slices.SortStableFunc(group, func(a, b T) int {
			return spec.Order(a).Compare(spec.Order(b))
		})
		parts = append(parts, Partition[T]{Key: k, Rows: group, Offset: offset})
		offset += len(group)
	}
	return parts
}

// Accumulate écrit la somme préfixe d'une partition dans out[Offset:].
// Une valeur absente compte pour 0; la première ligne porte sa propre valeur.
func Accumulate[T any](part Partition[T], spec WindowSpec[T], out []Windowed[T]) {
	var total float64
	for i, r := range part.Rows {
		total += spec.Value(r).Value()
		out[part.Offset+i] = Windowed[T]{Row: r, Cumulative: total}
	}
}

// RunningTotal calcule la somme cumulée par partition, en séquentiel.
// Même nombre de lignes en sortie qu'en entrée, ordonnées par
// (partition, date) puis ordre d'entrée.
func RunningTotal[T any](rows []T, spec WindowSpec[T]) []Windowed[T] {
	out := make([]Windowed[T], len(rows))
	for _, part := range Partitions(rows, spec) {
		Accumulate(part, spec, out)
	}
	return out
}

// CompareLocationDate ordre (location, date) commun aux vues par location
func CompareLocationDate(locA string, dateA time.Time, locB string, dateB time.Time) int {
	if c := cmp.Compare(locA, locB); c != 0 {
		return c
	}
	return dateA.Compare(dateB)
}
