package domain

import (
	"errors"
	"strconv"
)

// ErrUnknownView nom de vue inconnu
var ErrUnknownView = errors.New("unknown view")

// ViewName nom stable d'une vue
type ViewName string

const (
	ViewDeathsByCountry              ViewName = "deaths_by_country"
	ViewDeathsByContinent            ViewName = "deaths_by_continent"
	ViewVaccinationsByCountry        ViewName = "vaccinations_by_country"
	ViewVaccinationsByContinent      ViewName = "vaccinations_by_continent"
	ViewDeathRateByCountry           ViewName = "death_rate_by_country"
	ViewInfectionRateByCountry       ViewName = "infection_rate_by_country"
	ViewHighestInfectionByCountry    ViewName = "highest_infection_by_country"
	ViewHighestDeathsByCountry       ViewName = "highest_deaths_by_country"
	ViewHighestDeathsByContinent     ViewName = "highest_deaths_by_continent"
	ViewGlobalNumbers                ViewName = "global_numbers"
	ViewVaccinationCoverageByCountry ViewName = "vaccination_coverage_by_country"
)

// Row contrat commun à toutes les lignes de vue
type Row interface {
	ToCSVRow() []string
}

// Result vue évaluée, indépendamment du type de ligne (export, HTTP)
type Result interface {
	View() ViewName
	SnapshotID() string
	Columns() []string
	Len() int
	CSVRecords() [][]string
	JSONRows() any
	ParquetSchema() any
	ParquetRecords() []any
}

// ResultSet résultat typé d'une vue
type ResultSet[R Row] struct {
	view       ViewName
	snapshotID string
	columns    []string
	rows       []R
}

// NewResultSet crée un résultat; rows n'est pas copié
func NewResultSet[R Row](view ViewName, snapshotID string, columns []string, rows []R) *ResultSet[R] {
	if rows == nil {
		rows = []R{}
	}
	return &ResultSet[R]{
		view:       view,
		snapshotID: snapshotID,
		columns:    columns,
		rows:       rows,
	}
}

// View retourne le nom de la vue
func (rs *ResultSet[R]) View() ViewName {
	return rs.view
}

// SnapshotID retourne le snapshot évalué
func (rs *ResultSet[R]) SnapshotID() string {
	return rs.snapshotID
}

// Columns retourne les en-têtes de colonnes
func (rs *ResultSet[R]) Columns() []string {
	return append([]string{}, rs.columns...)
}

// Rows retourne les lignes typées
func (rs *ResultSet[R]) Rows() []R {
	return rs.rows
}

// Len retourne le nombre de lignes
func (rs *ResultSet[R]) Len() int {
	return len(rs.rows)
}

// CSVRecords retourne les lignes au format CSV (sans en-tête)
func (rs *ResultSet[R]) CSVRecords() [][]string {
	records := make([][]string, len(rs.rows))
	for i, r := range rs.rows {
		records[i] = r.ToCSVRow()
	}
	return records
}

// JSONRows retourne les lignes pour encoding/json
func (rs *ResultSet[R]) JSONRows() any {
	return rs.rows
}

// ParquetSchema retourne un pointeur sur le type de ligne (schéma parquet)
func (rs *ResultSet[R]) ParquetSchema() any {
	return new(R)
}

// ParquetRecords retourne les lignes pour le writer parquet
func (rs *ResultSet[R]) ParquetRecords() []any {
	records := make([]any, len(rs.rows))
	for i, r := range rs.rows {
		records[i] = r
	}
	return records
}

// formatInt cellule CSV d'un entier optionnel
func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// formatFloat cellule CSV d'un flottant optionnel
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
