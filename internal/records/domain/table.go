package domain

import (
	"slices"

	"covidstats/internal/shared/domain"
)

// CaseTable table cas/décès indexée par clé unique
type CaseTable struct {
	records []CaseRecord
	index   map[Key]int
}

// NewCaseTable construit la table; un doublon (location, date) est une erreur
func NewCaseTable(records []CaseRecord) (*CaseTable, error) {
	index := make(map[Key]int, len(records))
	for i, r := range records {
		k := r.Key()
		if _, dup := index[k]; dup {
			return nil, &JoinKeyCollisionError{Table: TableDeaths, Key: k}
		}
		index[k] = i
	}
	return &CaseTable{
		records: slices.Clone(records),
		index:   index,
	}, nil
}

// Records retourne une copie des lignes dans l'ordre de chargement
func (t *CaseTable) Records() []CaseRecord {
	return slices.Clone(t.records)
}

// Len retourne le nombre de lignes
func (t *CaseTable) Len() int {
	return len(t.records)
}

// Lookup retourne la ligne pour une clé
func (t *CaseTable) Lookup(k Key) (CaseRecord, bool) {
	i, ok := t.index[k]
	if !ok {
		return CaseRecord{}, false
	}
	return t.records[i], true
}

// Coverage retourne la période couverte par la table
func (t *CaseTable) Coverage() domain.DateRange {
	var dr domain.DateRange
	for _, r := range t.records {
		dr = dr.Extend(r.Date)
	}
	return dr
}

// VaccinationTable table de vaccination indexée par clé unique
type VaccinationTable struct {
	records []VaccinationRecord
	index   map[Key]int
}

// NewVaccinationTable construit la table; un doublon (location, date) est une erreur
func NewVaccinationTable(records []VaccinationRecord) (*VaccinationTable, error) {
	index := make(map[Key]int, len(records))
	for i, r := range records {
		k := r.Key()
		if _, dup := index[k]; dup {
			return nil, &JoinKeyCollisionError{Table: TableVaccinations, Key: k}
		}
		index[k] = i
	}
	return &VaccinationTable{
		records: slices.Clone(records),
		index:   index,
	}, nil
}

// Records retourne une copie des lignes dans l'ordre de chargement
func (t *VaccinationTable) Records() []VaccinationRecord {
	return slices.Clone(t.records)
}

// Len retourne le nombre de lignes
func (t *VaccinationTable) Len() int {
	return len(t.records)
}

// Lookup retourne la ligne pour une clé
func (t *VaccinationTable) Lookup(k Key) (VaccinationRecord, bool) {
	i, ok := t.index[k]
	if !ok {
		return VaccinationRecord{}, false
	}
	return t.records[i], true
}
