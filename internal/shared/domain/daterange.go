package domain

import (
	"errors"
	"time"
)

// DateLayout format canonique des dates de relevé
const DateLayout = "2006-01-02"

// DateRange représente une période de dates de relevé, bornes incluses
// DESIGN PATTERN: Value Object (DDD)
//   - Immutable: pas de setters, valeurs fixées à la création
//   - Validation dans le constructeur
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange crée une période à partir de deux dates (tronquées au jour)
func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = TruncateDay(start), TruncateDay(end)
	if end.Before(start) {
		return DateRange{}, errors.New("end date cannot be before start date")
	}
	return DateRange{start: start, end: end}, nil
}

// Start retourne la date de début
func (dr DateRange) Start() time.Time {
	return dr.start
}

// End retourne la date de fin
func (dr DateRange) End() time.Time {
	return dr.end
}

// IsZero indique une période vide (aucune donnée chargée)
func (dr DateRange) IsZero() bool {
	return dr.start.IsZero() && dr.end.IsZero()
}

// Days retourne le nombre de jours couverts
func (dr DateRange) Days() int {
	if dr.IsZero() {
		return 0
	}
	return int(dr.end.Sub(dr.start).Hours()/24) + 1
}

// Contains vérifie si une date appartient à la période
func (dr DateRange) Contains(t time.Time) bool {
	t = TruncateDay(t)
	return !t.Before(dr.start) && !t.After(dr.end)
}

// Extend élargit la période pour inclure une date
func (dr DateRange) Extend(t time.Time) DateRange {
	t = TruncateDay(t)
	if dr.IsZero() {
		return DateRange{start: t, end: t}
	}
	if t.Before(dr.start) {
		dr.start = t
	}
	if t.After(dr.end) {
		dr.end = t
	}
	return dr
}

// String retourne la période au format start..end
func (dr DateRange) String() string {
	if dr.IsZero() {
		return ""
	}
	return dr.start.Format(DateLayout) + ".." + dr.end.Format(DateLayout)
}

// TruncateDay ramène une date à minuit UTC
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
