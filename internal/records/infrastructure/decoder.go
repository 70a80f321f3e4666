package infrastructure

import (
	"strconv"
	"strings"
	"time"

	"covidstats/internal/records/domain"
	shareddomain "covidstats/internal/shared/domain"
)

// Colonnes attendues dans les deux jeux de données
const (
	ColLocation                    = "location"
	ColDate                        = "date"
	ColContinent                   = "continent"
	ColPopulation                  = "population"
	ColNewCases                    = "new_cases"
	ColTotalCases                  = "total_cases"
	ColNewDeaths                   = "new_deaths"
	ColTotalDeaths                 = "total_deaths"
	ColNewPeopleVaccinatedSmoothed = "new_people_vaccinated_smoothed"
	ColNewVaccinations             = "new_vaccinations"
)

// CaseColumns colonnes lues pour la table cas/décès, dans l'ordre de sélection SQL
var CaseColumns = []string{
	ColLocation, ColDate, ColContinent, ColPopulation,
	ColNewCases, ColTotalCases, ColNewDeaths, ColTotalDeaths,
}

// VaccinationColumns colonnes lues pour la table de vaccination
var VaccinationColumns = []string{
	ColLocation, ColDate, ColNewPeopleVaccinatedSmoothed, ColNewVaccinations,
}

// RequiredColumns colonnes qui doivent figurer dans l'en-tête de chaque source
var RequiredColumns = []string{ColLocation, ColDate}

var dateLayouts = []string{
	shareddomain.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
}

// FieldFunc retourne la valeur brute d'une colonne; une colonne absente
// de la source se comporte comme une cellule vide
type FieldFunc func(column string) string

// CoerceNumeric est l'unique conversion des colonnes numériques stockées
// en texte: une cellule vide est absente, un nombre fini (négatif compris)
// est conservé, un texte non convertible devient 0 et coerced vaut true.
func CoerceNumeric(raw string) (value shareddomain.Measure, coerced bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shareddomain.MissingMeasure(), false
	}
	m, ok := parseNumber(raw)
	if !ok {
		return shareddomain.MustNewMeasure(0), true
	}
	return m, false
}

// parseNumber accepte tout nombre fini; NaN et Inf sont du texte non convertible
func parseNumber(raw string) (shareddomain.Measure, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return shareddomain.Measure{}, false
	}
	m, err := shareddomain.NewMeasure(f)
	if err != nil {
		return shareddomain.Measure{}, false
	}
	return m, true
}

// RowDecoder convertit des lignes brutes en enregistrements typés et
// collecte les conversions signalées
type RowDecoder struct {
	table  domain.TableName
	issues []domain.CoercionIssue
}

// NewRowDecoder crée un décodeur pour une table
func NewRowDecoder(table domain.TableName) *RowDecoder {
	return &RowDecoder{table: table}
}

// Issues retourne les conversions signalées jusqu'ici
func (d *RowDecoder) Issues() []domain.CoercionIssue {
	return d.issues
}

// DecodeCase décode une ligne cas/décès
func (d *RowDecoder) DecodeCase(line int, field FieldFunc) (domain.CaseRecord, error) {
	location, date, err := d.key(line, field)
	if err != nil {
		return domain.CaseRecord{}, err
	}
	rec, err := domain.NewCaseRecord(location, date, field(ColContinent))
	if err != nil {
		return domain.CaseRecord{}, d.formatError(line, "", "", err.Error())
	}

	if rec.Population, err = d.amount(line, ColPopulation, field(ColPopulation)); err != nil {
		return domain.CaseRecord{}, err
	}
	if rec.NewCases, err = d.amount(line, ColNewCases, field(ColNewCases)); err != nil {
		return domain.CaseRecord{}, err
	}
	if rec.TotalCases, err = d.amount(line, ColTotalCases, field(ColTotalCases)); err != nil {
		return domain.CaseRecord{}, err
	}
	rec.NewDeaths = d.coerce(line, ColNewDeaths, field(ColNewDeaths))
	if rec.TotalDeaths, err = d.amount(line, ColTotalDeaths, field(ColTotalDeaths)); err != nil {
		return domain.CaseRecord{}, err
	}
	return rec, nil
}

// DecodeVaccination décode une ligne de vaccination
func (d *RowDecoder) DecodeVaccination(line int, field FieldFunc) (domain.VaccinationRecord, error) {
	location, date, err := d.key(line, field)
	if err != nil {
		return domain.VaccinationRecord{}, err
	}
	rec, err := domain.NewVaccinationRecord(location, date)
	if err != nil {
		return domain.VaccinationRecord{}, d.formatError(line, "", "", err.Error())
	}

	raw := field(ColNewPeopleVaccinatedSmoothed)
	if rec.NewPeopleVaccinatedSmoothed, err = d.amount(line, ColNewPeopleVaccinatedSmoothed, raw); err != nil {
		return domain.VaccinationRecord{}, err
	}
	rec.NewVaccinations = d.coerce(line, ColNewVaccinations, field(ColNewVaccinations))
	return rec, nil
}

func (d *RowDecoder) key(line int, field FieldFunc) (string, time.Time, error) {
	location := strings.TrimSpace(field(ColLocation))
	if location == "" {
		return "", time.Time{}, d.formatError(line, ColLocation, "", "required field is missing")
	}
	rawDate := strings.TrimSpace(field(ColDate))
	if rawDate == "" {
		return "", time.Time{}, d.formatError(line, ColDate, "", "required field is missing")
	}
	date, ok := parseDate(rawDate)
	if !ok {
		return "", time.Time{}, d.formatError(line, ColDate, rawDate, "unparseable date")
	}
	return location, date, nil
}

// amount colonne numérique stricte: seul un texte non convertible est une
// erreur, les valeurs négatives ou fractionnaires passent
func (d *RowDecoder) amount(line int, column, raw string) (shareddomain.Measure, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shareddomain.MissingMeasure(), nil
	}
	m, ok := parseNumber(raw)
	if !ok {
		return shareddomain.Measure{}, d.formatError(line, column, raw, "not a number")
	}
	return m, nil
}

// coerce colonne texte convertie: jamais d'erreur, un signalement
func (d *RowDecoder) coerce(line int, column, raw string) shareddomain.Measure {
	m, coerced := CoerceNumeric(raw)
	if coerced {
		d.issues = append(d.issues, domain.CoercionIssue{
			Table:  d.table,
			Line:   line,
			Column: column,
			Raw:    raw,
		})
	}
	return m
}

func (d *RowDecoder) formatError(line int, column, value, reason string) error {
	return &domain.FormatError{
		Table:  d.table,
		Line:   line,
		Column: column,
		Value:  value,
		Reason: reason,
	}
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return shareddomain.TruncateDay(t), true
		}
	}
	return time.Time{}, false
}
