package domain

import (
	recordsdomain "covidstats/internal/records/domain"
)

// JoinMode sémantique de jointure sur (location, date)
type JoinMode int

const (
	// InnerJoin écarte les lignes sans vaccination correspondante
	InnerJoin JoinMode = iota
	// LeftJoin conserve toutes les lignes cas/décès
	LeftJoin
)

func (m JoinMode) String() string {
	if m == LeftJoin {
		return "left"
	}
	return "inner"
}

// JoinedRecord ligne cas/décès et sa vaccination éventuelle
type JoinedRecord struct {
	Case        recordsdomain.CaseRecord
	Vaccination *recordsdomain.VaccinationRecord
}

// Matched indique si une vaccination a été trouvée
func (j JoinedRecord) Matched() bool {
	return j.Vaccination != nil
}

// Join apparie les deux tables sur (location, date) en conservant l'ordre
// des cas. Une clé en double de part ou d'autre est une erreur.
func Join(
	cases []recordsdomain.CaseRecord,
	vaccinations []recordsdomain.VaccinationRecord,
	mode JoinMode,
) ([]JoinedRecord, error) {
	index := make(map[recordsdomain.Key]int, len(vaccinations))
	for i, v := range vaccinations {
		k := v.Key()
		if _, dup := index[k]; dup {
			return nil, &recordsdomain.JoinKeyCollisionError{Table: recordsdomain.TableVaccinations, Key: k}
		}
		index[k] = i
	}

	seen := make(map[recordsdomain.Key]struct{}, len(cases))
	joined := make([]JoinedRecord, 0, len(cases))
	for _, c := range cases {
		k := c.Key()
		if _, dup := seen[k]; dup {
			return nil, &recordsdomain.JoinKeyCollisionError{Table: recordsdomain.TableDeaths, Key: k}
		}
		seen[k] = struct{}{}

		i, ok := index[k]
		if !ok {
			if mode == LeftJoin {
				joined = append(joined, JoinedRecord{Case: c})
			}
			continue
		}
		v := vaccinations[i]
		joined = append(joined, JoinedRecord{Case: c, Vaccination: &v})
	}
	return joined, nil
}
