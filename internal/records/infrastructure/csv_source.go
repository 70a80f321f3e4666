package infrastructure

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"covidstats/internal/records/domain"
)

// CSVSource lit les deux jeux de données depuis des fichiers CSV avec en-tête.
// Les colonnes sont repérées par nom; les colonnes en trop sont ignorées.
type CSVSource struct {
	open func(table domain.TableName) (io.ReadCloser, error)
	name string
}

// NewCSVFileSource crée une source à partir de deux chemins de fichiers
func NewCSVFileSource(casesPath, vaccinationsPath string) *CSVSource {
	paths := map[domain.TableName]string{
		domain.TableDeaths:       casesPath,
		domain.TableVaccinations: vaccinationsPath,
	}
	return &CSVSource{
		name: "csv:" + casesPath + "," + vaccinationsPath,
		open: func(table domain.TableName) (io.ReadCloser, error) {
			return os.Open(paths[table])
		},
	}
}

// NewCSVReaderSource crée une source à partir de deux readers.
// Les readers ne sont consommés qu'une fois: un second chargement échoue.
func NewCSVReaderSource(cases, vaccinations io.Reader) *CSVSource {
	readers := map[domain.TableName]io.Reader{
		domain.TableDeaths:       cases,
		domain.TableVaccinations: vaccinations,
	}
	var mu sync.Mutex
	used := make(map[domain.TableName]bool, 2)
	return &CSVSource{
		name: "csv:reader",
		open: func(table domain.TableName) (io.ReadCloser, error) {
			mu.Lock()
			defer mu.Unlock()
			if used[table] {
				return nil, fmt.Errorf("%s: reader already consumed", table)
			}
			used[table] = true
			return io.NopCloser(readers[table]), nil
		},
	}
}

// Name décrit la source pour les logs
func (s *CSVSource) Name() string {
	return s.name
}

// LoadCases lit et décode la table cas/décès
func (s *CSVSource) LoadCases(ctx context.Context) ([]domain.CaseRecord, []domain.CoercionIssue, error) {
	dec := NewRowDecoder(domain.TableDeaths)
	var records []domain.CaseRecord
	err := s.scan(ctx, domain.TableDeaths, func(line int, field FieldFunc) error {
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
func (s *CSVSource) LoadVaccinations(ctx context.Context) ([]domain.VaccinationRecord, []domain.CoercionIssue, error) {
	dec := NewRowDecoder(domain.TableVaccinations)
	var records []domain.VaccinationRecord
	err := s.scan(ctx, domain.TableVaccinations, func(line int, field FieldFunc) error {
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

// scan parcourt le fichier ligne par ligne et appelle fn avec un accès
// aux colonnes par nom
func (s *CSVSource) scan(ctx context.Context, table domain.TableName, fn func(line int, field FieldFunc) error) error {
	rc, err := s.open(table)
	if err != nil {
		return fmt.Errorf("open %s: %w", table, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &domain.FormatError{Table: table, Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", table, err)
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		positions[name] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := positions[col]; !ok {
			return &domain.FormatError{Table: table, Line: 1, Column: col, Reason: "required column is missing from header"}
		}
	}

	var record []string
	field := func(column string) string {
		i, ok := positions[column]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	for n := 0; ; n++ {
		if n%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		record, err = reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return &domain.FormatError{Table: table, Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return fmt.Errorf("read %s: %w", table, err)
		}
		line, _ := reader.FieldPos(0)
		if err := fn(line, field); err != nil {
			return err
		}
	}
}
