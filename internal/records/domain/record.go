package domain

import (
	"errors"
	"strings"
	"time"

	"covidstats/internal/shared/domain"
)

// TableName identifie l'un des deux jeux de données d'entrée
type TableName string

const (
	TableDeaths       TableName = "covid_deaths"
	TableVaccinations TableName = "covid_vaccinations"
)

// Key clé de jointure (location, date)
type Key struct {
	Location string
	Date     time.Time
}

// NewKey construit une clé avec la date tronquée au jour
func NewKey(location string, date time.Time) Key {
	return Key{Location: location, Date: domain.TruncateDay(date)}
}

func (k Key) String() string {
	return "(" + k.Location + ", " + k.Date.Format(domain.DateLayout) + ")"
}

// CaseRecord représente une ligne cas/décès pour une location et une date
type CaseRecord struct {
	Location    string
	Date        time.Time
	Continent   string
	Population  domain.Measure
	NewCases    domain.Measure
	TotalCases  domain.Measure
	NewDeaths   domain.Measure
	TotalDeaths domain.Measure
}

// NewCaseRecord crée un CaseRecord avec validation de la clé
func NewCaseRecord(location string, date time.Time, continent string) (CaseRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return CaseRecord{}, errors.New("location cannot be empty")
	}
	if date.IsZero() {
		return CaseRecord{}, errors.New("date cannot be empty")
	}
	return CaseRecord{
		Location:  location,
		Date:      domain.TruncateDay(date),
		Continent: strings.TrimSpace(continent),
	}, nil
}

// Key retourne la clé de jointure
func (r CaseRecord) Key() Key {
	return NewKey(r.Location, r.Date)
}

// HasContinent indique une ligne pays (continent renseigné)
func (r CaseRecord) HasContinent() bool {
	return r.Continent != ""
}

// VaccinationRecord représente une ligne de vaccination
type VaccinationRecord struct {
	Location                    string
	Date                        time.Time
	NewPeopleVaccinatedSmoothed domain.Measure
	NewVaccinations             domain.Measure
}

// NewVaccinationRecord crée un VaccinationRecord avec validation de la clé
func NewVaccinationRecord(location string, date time.Time) (VaccinationRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return VaccinationRecord{}, errors.New("location cannot be empty")
	}
	if date.IsZero() {
		return VaccinationRecord{}, errors.New("date cannot be empty")
	}
	return VaccinationRecord{
		Location: location,
		Date:     domain.TruncateDay(date),
	}, nil
}

// Key retourne la clé de jointure
func (r VaccinationRecord) Key() Key {
	return NewKey(r.Location, r.Date)
}

// CoercionIssue trace une valeur texte non numérique remplacée par 0
type CoercionIssue struct {
	Table  TableName
	Line   int
	Column string
	Raw    string
}
