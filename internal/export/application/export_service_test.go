package application

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/reader"

	analyticsdomain "covidstats/internal/analytics/domain"
	"covidstats/internal/export/domain"
)

// stubViews ViewSource en mémoire
type stubViews struct {
	result       analyticsdomain.Result
	err          error
	evaluated    int
	materialized int
}

func (s *stubViews) Evaluate(ctx context.Context, name analyticsdomain.ViewName) (analyticsdomain.Result, error) {
	s.evaluated++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubViews) Materialize(ctx context.Context, name analyticsdomain.ViewName) (analyticsdomain.Result, error) {
	s.materialized++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }

func globalNumbers() analyticsdomain.Result {
	return analyticsdomain.NewResultSet(
		analyticsdomain.ViewGlobalNumbers,
		"snap-1",
		[]string{"date", "total_cases", "total_deaths", "death_percentage"},
		[]analyticsdomain.GlobalNumbersRow{
			{Date: "2021-01-01", TotalCases: int64Ptr(180), TotalDeaths: int64Ptr(10), DeathPercentage: float64Ptr(5.5)},
			{Date: "2021-01-02", TotalCases: int64Ptr(0), TotalDeaths: nil, DeathPercentage: nil},
		},
	)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, globalNumbers()))

	assert.Equal(t,
		"date,total_cases,total_deaths,death_percentage\n"+
			"2021-01-01,180,10,5.5\n"+
			"2021-01-02,0,,\n",
		buf.String(),
	)
}

func TestWriteCSV_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	empty := analyticsdomain.NewResultSet[analyticsdomain.DeathCountRow](
		analyticsdomain.ViewHighestDeathsByCountry, "snap", []string{"location", "total_death_count"}, nil,
	)
	require.NoError(t, WriteCSV(&buf, empty))
	assert.Equal(t, "location,total_death_count\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, globalNumbers()))

	var doc struct {
		View     string           `json:"view"`
		Snapshot string           `json:"snapshot"`
		Columns  []string         `json:"columns"`
		Rows     []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "global_numbers", doc.View)
	assert.Equal(t, "snap-1", doc.Snapshot)
	assert.Len(t, doc.Columns, 4)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, 180.0, doc.Rows[0]["total_cases"])
	assert.Contains(t, doc.Rows[1], "total_deaths")
	assert.Nil(t, doc.Rows[1]["total_deaths"], "NULL => null")
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, globalNumbers()))

	out := buf.Bytes()
	require.Greater(t, len(out), 8)
	assert.Equal(t, "PAR1", string(out[:4]))
	assert.Equal(t, "PAR1", string(out[len(out)-4:]))

	rows := readParquet(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "2021-01-01", rows[0].Date)
	require.NotNil(t, rows[0].TotalCases)
	assert.Equal(t, int64(180), *rows[0].TotalCases)
	require.NotNil(t, rows[0].DeathPercentage)
	assert.Equal(t, 5.5, *rows[0].DeathPercentage)
	require.NotNil(t, rows[1].TotalCases)
	assert.Equal(t, int64(0), *rows[1].TotalCases)
	assert.Nil(t, rows[1].TotalDeaths, "NULL relu comme nil")
	assert.Nil(t, rows[1].DeathPercentage)
}

// readParquet relit un export global_numbers
func readParquet(t *testing.T, data []byte) []analyticsdomain.GlobalNumbersRow {
	t.Helper()
	pf, err := buffer.NewBufferFile(data)
	require.NoError(t, err)

	pr, err := reader.NewParquetReader(pf, new(analyticsdomain.GlobalNumbersRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	rows := make([]analyticsdomain.GlobalNumbersRow, pr.GetNumRows())
	require.NoError(t, pr.Read(&rows))
	return rows
}

func TestWrite_InvalidFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, globalNumbers(), domain.ExportFormat("xml"))
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestExportService_Export(t *testing.T) {
	views := &stubViews{result: globalNumbers()}
	svc := NewExportService(views, nil)

	job, err := domain.NewExportJob(analyticsdomain.ViewGlobalNumbers, domain.ExportFormatCSV)
	require.NoError(t, err)

	data, err := svc.ExportBytes(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "date,total_cases"))
	assert.Equal(t, 1, views.evaluated, "recalcul par défaut")
	assert.Equal(t, 0, views.materialized)
}

func TestExportService_WithMaterialize(t *testing.T) {
	views := &stubViews{result: globalNumbers()}
	svc := NewExportService(views, nil).WithMaterialize(true)

	job, err := domain.NewExportJob(analyticsdomain.ViewGlobalNumbers, domain.ExportFormatJSON)
	require.NoError(t, err)

	_, err = svc.ExportBytes(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 0, views.evaluated)
	assert.Equal(t, 1, views.materialized)
}

func TestExportService_PropagatesViewError(t *testing.T) {
	svc := NewExportService(&stubViews{err: analyticsdomain.ErrUnknownView}, nil)

	job, err := domain.NewExportJob("nope", domain.ExportFormatJSON)
	require.NoError(t, err)

	_, err = svc.ExportBytes(context.Background(), job)
	assert.ErrorIs(t, err, analyticsdomain.ErrUnknownView)
}

// BenchmarkWriteCSV export CSV de 10000 lignes
func BenchmarkWriteCSV(b *testing.B) {
	rows := make([]analyticsdomain.GlobalNumbersRow, 10000)
	for i := range rows {
		rows[i] = analyticsdomain.GlobalNumbersRow{Date: "2021-01-01", TotalCases: int64Ptr(int64(i)), DeathPercentage: float64Ptr(1.25)}
	}
	result := analyticsdomain.NewResultSet(analyticsdomain.ViewGlobalNumbers, "snap", []string{"date", "total_cases", "total_deaths", "death_percentage"}, rows)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteCSV(&bytes.Buffer{}, result); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWriteParquet export Parquet de 10000 lignes
func BenchmarkWriteParquet(b *testing.B) {
	rows := make([]analyticsdomain.GlobalNumbersRow, 10000)
	for i := range rows {
		rows[i] = analyticsdomain.GlobalNumbersRow{Date: "2021-01-01", TotalCases: int64Ptr(int64(i))}
	}
	result := analyticsdomain.NewResultSet(analyticsdomain.ViewGlobalNumbers, "snap", nil, rows)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteParquet(&bytes.Buffer{}, result); err != nil {
			b.Fatal(err)
		}
	}
}
