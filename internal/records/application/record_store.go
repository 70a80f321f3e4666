package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"covidstats/internal/records/domain"
)

// maxLoggedIssues nombre de conversions détaillées dans les logs par chargement
const maxLoggedIssues = 20

// Source fournit les deux tables décodées
type Source interface {
	Name() string
	LoadCases(ctx context.Context) ([]domain.CaseRecord, []domain.CoercionIssue, error)
	LoadVaccinations(ctx context.Context) ([]domain.VaccinationRecord, []domain.CoercionIssue, error)
}

// RecordStore détient le snapshot courant. Un chargement réussi remplace
// le snapshot; un chargement en échec laisse le précédent en place.
type RecordStore struct {
	mu       sync.RWMutex
	snapshot *domain.Snapshot
	logger   *zap.Logger
}

// NewRecordStore crée un store vide
func NewRecordStore(logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordStore{logger: logger.Named("records")}
}

// Load lit les deux tables de la source en parallèle puis publie un
// nouveau snapshot. Toute erreur est fatale au chargement.
func (s *RecordStore) Load(ctx context.Context, source Source) (*domain.Snapshot, error) {
	start := time.Now()
	s.logger.Info("loading records", zap.String("source", source.Name()))

	var (
		cases        []domain.CaseRecord
		vaccinations []domain.VaccinationRecord
		caseIssues   []domain.CoercionIssue
		vaccIssues   []domain.CoercionIssue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cases, caseIssues, err = source.LoadCases(gctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", domain.TableDeaths, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vaccinations, vaccIssues, err = source.LoadVaccinations(gctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", domain.TableVaccinations, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load failed", zap.String("source", source.Name()), zap.Error(err))
		return nil, err
	}

	issues := append(caseIssues, vaccIssues...)
	snapshot, err := domain.NewSnapshot(cases, vaccinations, issues)
	if err != nil {
		s.logger.Error("load failed", zap.String("source", source.Name()), zap.Error(err))
		return nil, err
	}

	s.reportIssues(snapshot)

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.Info("records loaded",
		zap.String("snapshot", snapshot.ID().String()),
		zap.Int("cases", snapshot.Cases().Len()),
		zap.Int("vaccinations", snapshot.Vaccinations().Len()),
		zap.Stringer("coverage", snapshot.Coverage()),
		zap.Int("coercions", len(issues)),
		zap.Duration("duration", time.Since(start)),
	)
	return snapshot, nil
}

// Snapshot retourne le snapshot courant ou ErrNoSnapshot
func (s *RecordStore) Snapshot() (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, domain.ErrNoSnapshot
	}
	return s.snapshot, nil
}

// reportIssues rend visibles les valeurs remplacées par 0
func (s *RecordStore) reportIssues(snapshot *domain.Snapshot) {
	issues := snapshot.Issues()
	for i, issue := range issues {
		if i == maxLoggedIssues {
			s.logger.Warn("further numeric coercions not logged",
				zap.Int("remaining", len(issues)-maxLoggedIssues))
			return
		}
		s.logger.Warn("non-numeric value coerced to zero",
			zap.String("table", string(issue.Table)),
			zap.Int("line", issue.Line),
			zap.String("column", issue.Column),
			zap.String("raw", issue.Raw),
		)
	}
}
