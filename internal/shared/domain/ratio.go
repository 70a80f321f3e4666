package domain

import "encoding/json"

// Ratio représente un pourcentage dérivé (taux de mortalité, d'infection,
// de vaccination). Un dénominateur nul ou absent donne un ratio indéfini,
// jamais une erreur.
type Ratio struct {
	value   float64
	defined bool
}

// PercentOf calcule part / whole × 100
func PercentOf(part, whole Measure) Ratio {
	if !part.Present() || !whole.Present() || whole.IsZero() {
		return Ratio{}
	}
	return Ratio{
		value:   part.Value() / whole.Value() * 100,
		defined: true,
	}
}

// UndefinedRatio retourne un ratio indéfini (NULL)
func UndefinedRatio() Ratio {
	return Ratio{}
}

// Defined indique si le ratio a pu être calculé
func (r Ratio) Defined() bool {
	return r.defined
}

// Value retourne la valeur et son statut
func (r Ratio) Value() (float64, bool) {
	return r.value, r.defined
}

// Float64Ptr retourne nil pour un ratio indéfini
func (r Ratio) Float64Ptr() *float64 {
	if !r.defined {
		return nil
	}
	v := r.value
	return &v
}

// Greater ordonne les ratios de façon décroissante, les indéfinis en dernier
func (r Ratio) Greater(other Ratio) bool {
	if r.defined != other.defined {
		return r.defined
	}
	return r.value > other.value
}

// MarshalJSON encode un ratio indéfini en null
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}
