package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	analyticsdomain "covidstats/internal/analytics/domain"
	"covidstats/internal/export/domain"
)

// flushEvery lignes CSV entre deux flush
const flushEvery = 1000

// parquetParallelism nombre de goroutines de marshalling du writer parquet
const parquetParallelism = 4

// ViewSource fournit une vue évaluée (ViewService)
type ViewSource interface {
	Evaluate(ctx context.Context, name analyticsdomain.ViewName) (analyticsdomain.Result, error)
	Materialize(ctx context.Context, name analyticsdomain.ViewName) (analyticsdomain.Result, error)
}

// ExportService écrit les vues en CSV, JSON ou Parquet.
// Par défaut chaque export recalcule la vue; WithMaterialize(true) passe par le cache.
type ExportService struct {
	views       ViewSource
	materialize bool
	logger      *zap.Logger
}

// NewExportService crée une nouvelle instance de ExportService
func NewExportService(views ViewSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{views: views, logger: logger.Named("export")}
}

// WithMaterialize active la lecture des vues matérialisées
func (s *ExportService) WithMaterialize(materialize bool) *ExportService {
	s.materialize = materialize
	return s
}

func (s *ExportService) result(ctx context.Context, name analyticsdomain.ViewName) (analyticsdomain.Result, error) {
	if s.materialize {
		return s.views.Materialize(ctx, name)
	}
	return s.views.Evaluate(ctx, name)
}

// Export évalue la vue du job puis l'écrit dans w
func (s *ExportService) Export(ctx context.Context, job *domain.ExportJob, w io.Writer) error {
	start := time.Now()

	result, err := s.result(ctx, job.View())
	if err != nil {
		return err
	}
	if err := Write(w, result, job.Format()); err != nil {
		return fmt.Errorf("export %s as %s: %w", job.View(), job.Format(), err)
	}

	s.logger.Info("view exported",
		zap.String("view", string(job.View())),
		zap.String("format", string(job.Format())),
		zap.Int("rows", result.Len()),
		zap.Bool("materialized", s.materialize),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// ExportBytes variante en mémoire de Export (réponse HTTP)
func (s *ExportService) ExportBytes(ctx context.Context, job *domain.ExportJob) ([]byte, error) {
	var buffer bytes.Buffer
	if err := s.Export(ctx, job, &buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Write encode un résultat dans le format demandé
func Write(w io.Writer, result analyticsdomain.Result, format domain.ExportFormat) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(w, result)
	case domain.ExportFormatJSON:
		return WriteJSON(w, result)
	case domain.ExportFormatParquet:
		return WriteParquet(w, result)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidFormat, format)
	}
}

// WriteCSV en-tête puis une ligne par enregistrement; NULL = cellule vide
func WriteCSV(w io.Writer, result analyticsdomain.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns()); err != nil {
		return err
	}
	for i, record := range result.CSVRecords() {
		if err := cw.Write(record); err != nil {
			return err
		}
		if (i+1)%flushEvery == 0 {
			cw.Flush()
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonDocument enveloppe d'un export JSON
type jsonDocument struct {
	View     analyticsdomain.ViewName `json:"view"`
	Snapshot string                   `json:"snapshot"`
	Columns  []string                 `json:"columns"`
	Rows     any                      `json:"rows"`
}

// WriteJSON document {view, snapshot, columns, rows}; NULL = null
func WriteJSON(w io.Writer, result analyticsdomain.Result) error {
	return json.NewEncoder(w).Encode(jsonDocument{
		View:     result.View(),
		Snapshot: result.SnapshotID(),
		Columns:  result.Columns(),
		Rows:     result.JSONRows(),
	})
}

// WriteParquet fichier parquet compressé SNAPPY, schéma tiré des tags de la ligne
func WriteParquet(w io.Writer, result analyticsdomain.Result) error {
	pf := writerfile.NewWriterFile(w)
	pw, err := writer.NewParquetWriter(pf, result.ParquetSchema(), parquetParallelism)
	if err != nil {
		return fmt.Errorf("parquet schema: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, record := range result.ParquetRecords() {
		if err := pw.Write(record); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}
