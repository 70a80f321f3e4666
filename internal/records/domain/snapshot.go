package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"covidstats/internal/shared/domain"
)

// Snapshot représente les deux tables chargées pour une exécution.
// Lecture seule après construction: les vues empruntent, ne modifient jamais.
type Snapshot struct {
	id           uuid.UUID
	loadedAt     time.Time
	cases        *CaseTable
	vaccinations *VaccinationTable
	issues       []CoercionIssue
}

// NewSnapshot assemble un snapshot à partir des lignes décodées.
// Vérifie l'unicité des clés dans chaque table.
func NewSnapshot(cases []CaseRecord, vaccinations []VaccinationRecord, issues []CoercionIssue) (*Snapshot, error) {
	caseTable, err := NewCaseTable(cases)
	if err != nil {
		return nil, err
	}
	vaccTable, err := NewVaccinationTable(vaccinations)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		id:           uuid.New(),
		loadedAt:     time.Now(),
		cases:        caseTable,
		vaccinations: vaccTable,
		issues:       slices.Clone(issues),
	}, nil
}

// ID retourne l'identifiant unique du snapshot
func (s *Snapshot) ID() uuid.UUID {
	return s.id
}

// LoadedAt retourne la date de chargement
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Cases retourne la table cas/décès
func (s *Snapshot) Cases() *CaseTable {
	return s.cases
}

// Vaccinations retourne la table de vaccination
func (s *Snapshot) Vaccinations() *VaccinationTable {
	return s.vaccinations
}

// Issues retourne les conversions numériques signalées au chargement
func (s *Snapshot) Issues() []CoercionIssue {
	return slices.Clone(s.issues)
}

// Coverage retourne la période couverte par les cas
func (s *Snapshot) Coverage() domain.DateRange {
	return s.cases.Coverage()
}
