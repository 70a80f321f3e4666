package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	analyticsdomain "covidstats/internal/analytics/domain"
)

// ErrInvalidFormat format d'export inconnu
var ErrInvalidFormat = errors.New("invalid export format")

// ExportFormat représente le format d'export
type ExportFormat string

const (
	ExportFormatCSV     ExportFormat = "CSV"
	ExportFormatJSON    ExportFormat = "JSON"
	ExportFormatParquet ExportFormat = "Parquet"
)

// ParseExportFormat lit un format sans tenir compte de la casse; vide = CSV
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return ExportFormatCSV, nil
	case "json":
		return ExportFormatJSON, nil
	case "parquet":
		return ExportFormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// ContentType type MIME de la réponse HTTP
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatJSON:
		return "application/json"
	case ExportFormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv"
	}
}

// Extension extension de fichier
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatJSON:
		return "json"
	case ExportFormatParquet:
		return "parquet"
	default:
		return "csv"
	}
}

// ExportJob représente un job d'export d'une vue
type ExportJob struct {
	view      analyticsdomain.ViewName
	format    ExportFormat
	createdAt time.Time
}

// NewExportJob crée un nouveau job d'export avec validation
func NewExportJob(view analyticsdomain.ViewName, format ExportFormat) (*ExportJob, error) {
	if view == "" {
		return nil, errors.New("export view cannot be empty")
	}
	if format != ExportFormatCSV && format != ExportFormatJSON && format != ExportFormatParquet {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	return &ExportJob{
		view:      view,
		format:    format,
		createdAt: time.Now(),
	}, nil
}

// View retourne la vue exportée
func (ej *ExportJob) View() analyticsdomain.ViewName {
	return ej.view
}

// Format retourne le format d'export
func (ej *ExportJob) Format() ExportFormat {
	return ej.format
}

// CreatedAt retourne la date de création
func (ej *ExportJob) CreatedAt() time.Time {
	return ej.createdAt
}

// FileName nom de fichier proposé (Content-Disposition, sortie CLI)
func (ej *ExportJob) FileName() string {
	return fmt.Sprintf("%s_%s.%s", ej.view, ej.createdAt.Format("20060102_150405"), ej.format.Extension())
}
