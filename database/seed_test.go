package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidstats/internal/testhelpers"
)

func TestCreateTableQuery(t *testing.T) {
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "covid_deaths" ("location" TEXT, "date" TEXT, "total_cases" TEXT)`,
		CreateTableQuery("covid_deaths", []string{"location", "date", "total_cases"}),
	)
}

func TestHeaderColumns(t *testing.T) {
	columns, err := HeaderColumns([]string{"\ufeffiso_code", " Location ", "DATE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"iso_code", "location", "date"}, columns)

	_, err = HeaderColumns([]string{"location", " "})
	assert.Error(t, err)

	_, err = HeaderColumns([]string{"location", "Location"})
	assert.Error(t, err)
}

func TestSeedTable_EmptyInput(t *testing.T) {
	_, err := SeedTable(context.Background(), nil, "covid_deaths", strings.NewReader(""), false)
	assert.Error(t, err)
}

// ========================================
// INTEGRATION TESTS - REAL DATABASE
// ========================================

func TestSeedTable(t *testing.T) {
	testhelpers.SkipIfNoDatabase(t)

	ctx := testhelpers.SetupTestContext(t)
	defer ctx.Cleanup()
	defer func() {
		_, _ = ctx.DB.Exec(`DROP TABLE IF EXISTS "test_seed_deaths"`)
	}()

	bg := context.Background()
	n, err := SeedTable(bg, ctx.DB, "test_seed_deaths", strings.NewReader(testhelpers.SampleCasesCSV), true)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	// replace=true recrée la table au lieu d'ajouter
	n, err = SeedTable(bg, ctx.DB, "test_seed_deaths", strings.NewReader(testhelpers.SampleCasesCSV), true)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	var count, nulls int
	require.NoError(t, ctx.DB.QueryRow(`SELECT COUNT(*), COUNT(*) FILTER (WHERE total_deaths IS NULL) FROM "test_seed_deaths"`).Scan(&count, &nulls))
	assert.Equal(t, 8, count)
	assert.Equal(t, 1, nulls)
}
