package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsdomain "covidstats/internal/analytics/domain"
)

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ExportFormat
	}{
		{"", ExportFormatCSV},
		{"csv", ExportFormatCSV},
		{"JSON", ExportFormatJSON},
		{" Parquet ", ExportFormatParquet},
	}
	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseExportFormat("xlsx")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNewExportJob(t *testing.T) {
	job, err := NewExportJob(analyticsdomain.ViewGlobalNumbers, ExportFormatParquet)
	require.NoError(t, err)
	assert.Equal(t, analyticsdomain.ViewGlobalNumbers, job.View())
	assert.Equal(t, ExportFormatParquet, job.Format())
	assert.Regexp(t, `^global_numbers_\d{8}_\d{6}\.parquet$`, job.FileName())

	_, err = NewExportJob("", ExportFormatCSV)
	assert.Error(t, err)

	_, err = NewExportJob(analyticsdomain.ViewGlobalNumbers, ExportFormat("XML"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestExportFormat_ContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ExportFormatCSV.ContentType())
	assert.Equal(t, "application/json", ExportFormatJSON.ContentType())
	assert.Equal(t, "parquet", ExportFormatParquet.Extension())
}

// BenchmarkParseExportFormat benchmark du parsing de format (chemin HTTP)
func BenchmarkParseExportFormat(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ParseExportFormat("parquet")
	}
}
