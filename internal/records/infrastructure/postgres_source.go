package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"covidstats/internal/records/domain"
	"covidstats/internal/shared/infrastructure"
)

// PostgresSource lit les deux tables depuis PostgreSQL.
// Toutes les colonnes sont sélectionnées en texte et passent par le même
// décodeur que les fichiers CSV.
type PostgresSource struct {
	infrastructure.BaseRepository
	deathsTable       string
	vaccinationsTable string
}

// NewPostgresSource crée une source sur les tables données (noms par défaut si vides)
func NewPostgresSource(db *sql.DB, deathsTable, vaccinationsTable string) *PostgresSource {
	if deathsTable == "" {
		deathsTable = string(domain.TableDeaths)
	}
	if vaccinationsTable == "" {
		vaccinationsTable = string(domain.TableVaccinations)
	}
	return &PostgresSource{
		BaseRepository:    infrastructure.NewBaseRepository(db),
		deathsTable:       deathsTable,
		vaccinationsTable: vaccinationsTable,
	}
}

// Name décrit la source pour les logs
func (s *PostgresSource) Name() string {
	return "postgres:" + s.deathsTable + "," + s.vaccinationsTable
}

// LoadCases lit et décode la table cas/décès
func (s *PostgresSource) LoadCases(ctx context.Context) ([]domain.CaseRecord, []domain.CoercionIssue, error) {
	dec := NewRowDecoder(domain.TableDeaths)
	var records []domain.CaseRecord
	err := s.scan(ctx, s.deathsTable, CaseColumns, func(line int, field FieldFunc) error {
		rec, err := dec.DecodeCase(line, field)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return records, dec.Issues(), nil
}

// LoadVaccinations lit et décode la table de vaccination
func (s *PostgresSource) LoadVaccinations(ctx context.Context) ([]domain.VaccinationRecord, []domain.CoercionIssue, error) {
	dec := NewRowDecoder(domain.TableVaccinations)
	var records []domain.VaccinationRecord
	err := s.scan(ctx, s.vaccinationsTable, VaccinationColumns, func(line int, field FieldFunc) error {
		rec, err := dec.DecodeVaccination(line, field)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return records, dec.Issues(), nil
}

// SelectTextQuery construit le SELECT de toutes les colonnes castées en texte
func SelectTextQuery(table string, columns []string) string {
	exprs := make([]string, len(columns))
	for i, col := range columns {
		exprs[i] = pq.QuoteIdentifier(col) + "::text"
	}
	return fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s, %s",
		strings.Join(exprs, ", "),
		pq.QuoteIdentifier(table),
		pq.QuoteIdentifier(ColLocation),
		pq.QuoteIdentifier(ColDate),
	)
}

func (s *PostgresSource) scan(ctx context.Context, table string, columns []string, fn func(line int, field FieldFunc) error) error {
	repo := s.WithContext(ctx)
	rows, err := repo.Query(SelectTextQuery(table, columns))
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	positions := make(map[string]int, len(columns))
	for i, col := range columns {
		positions[col] = i
	}
	field := func(column string) string {
		i, ok := positions[column]
		if !ok || !values[i].Valid {
			return ""
		}
		return values[i].String
	}

	line := 0
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan %s row %d: %w", table, line, err)
		}
		if err := fn(line, field); err != nil {
			return err
		}
	}
	return rows.Err()
}
