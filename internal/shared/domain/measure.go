package domain

import (
	"errors"
	"fmt"
	"math"
)

// Measure représente une valeur numérique finie éventuellement absente
// (cellule vide dans la source). L'absence n'est pas une erreur; les
// corrections négatives de la source sont conservées telles quelles.
type Measure struct {
	value   float64
	present bool
}

// NewMeasure crée une Measure présente avec validation
func NewMeasure(value float64) (Measure, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Measure{}, errors.New("measure must be a finite number")
	}
	return Measure{value: value, present: true}, nil
}

// MustNewMeasure crée une Measure en paniquant si invalide
func MustNewMeasure(value float64) Measure {
	m, err := NewMeasure(value)
	if err != nil {
		panic(fmt.Sprintf("invalid measure: %v", err))
	}
	return m
}

// MissingMeasure retourne une Measure absente (NULL)
func MissingMeasure() Measure {
	return Measure{}
}

// Present indique si la valeur existe
func (m Measure) Present() bool {
	return m.present
}

// Value retourne la valeur, 0 si absente
func (m Measure) Value() float64 {
	return m.value
}

// Float64Ptr retourne nil pour une valeur absente
func (m Measure) Float64Ptr() *float64 {
	if !m.present {
		return nil
	}
	v := m.value
	return &v
}

// Int64Ptr retourne la valeur tronquée en entier, nil si absente
func (m Measure) Int64Ptr() *int64 {
	if !m.present {
		return nil
	}
	v := int64(m.value)
	return &v
}

// Add additionne deux mesures; le résultat est présent si l'une des deux l'est
func (m Measure) Add(other Measure) Measure {
	return Measure{
		value:   m.value + other.value,
		present: m.present || other.present,
	}
}

// Max retourne la plus grande des deux mesures présentes
func (m Measure) Max(other Measure) Measure {
	switch {
	case !other.present:
		return m
	case !m.present:
		return other
	case other.value > m.value:
		return other
	default:
		return m
	}
}

// IsZero vérifie si la mesure est absente ou nulle
func (m Measure) IsZero() bool {
	return m.value == 0
}
