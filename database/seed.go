package database

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"

	sharedinfra "covidstats/internal/shared/infrastructure"
)

// CreateTableQuery table de staging: une colonne TEXT par colonne du fichier,
// comme l'import texte d'origine. Le typage se fait au chargement.
func CreateTableQuery(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = pq.QuoteIdentifier(col) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pq.QuoteIdentifier(table), strings.Join(defs, ", "))
}

// HeaderColumns normalise les en-têtes CSV en noms de colonnes
func HeaderColumns(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name == "" {
			return nil, fmt.Errorf("empty column name at position %d", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}
	return columns, nil
}

// SeedTable crée la table puis y copie le CSV via COPY, dans une transaction.
// replace supprime la table existante. Les cellules vides deviennent NULL.
// Retourne le nombre de lignes copiées.
func SeedTable(ctx context.Context, db *sql.DB, table string, r io.Reader, replace bool) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	columns, err := HeaderColumns(header)
	if err != nil {
		return 0, err
	}

	count := 0
	uow := sharedinfra.NewUnitOfWork(db)
	err = uow.Execute(ctx, func(tx *sql.Tx) error {
		if replace {
			if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(table)); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, CreateTableQuery(table, columns)); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
		if err != nil {
			return err
		}
		defer stmt.Close()

		args := make([]any, len(columns))
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			for i := range args {
				args[i] = nil
				if i < len(record) && record[i] != "" {
					args[i] = record[i]
				}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("copy row %d: %w", count+1, err)
			}
			count++
		}

		_, err = stmt.ExecContext(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", table, err)
	}

	if _, err := db.ExecContext(ctx, "ANALYZE "+pq.QuoteIdentifier(table)); err != nil {
		return count, fmt.Errorf("analyze %s: %w", table, err)
	}
	return count, nil
}
