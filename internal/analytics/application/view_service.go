package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"covidstats/internal/analytics/domain"
	recordsdomain "covidstats/internal/records/domain"
	sharedinfra "covidstats/internal/shared/infrastructure"
)

// DefaultCacheTTL durée de vie d'une vue matérialisée
const DefaultCacheTTL = 5 * time.Minute

// SnapshotProvider fournit le snapshot courant (RecordStore)
type SnapshotProvider interface {
	Snapshot() (*recordsdomain.Snapshot, error)
}

// ViewService évalue les vues sur le snapshot courant.
// Evaluate recalcule à chaque appel; seul Materialize passe par le cache.
type ViewService struct {
	store      SnapshotProvider
	classifier *domain.Classifier
	cache      sharedinfra.Cache
	cacheTTL   time.Duration
	workers    int
	logger     *zap.Logger
}

// NewViewService crée une nouvelle instance de ViewService
func NewViewService(
	store SnapshotProvider,
	classifier *domain.Classifier,
	cache sharedinfra.Cache,
	logger *zap.Logger,
) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{
		store:      store,
		classifier: classifier,
		cache:      cache,
		cacheTTL:   DefaultCacheTTL,
		workers:    1,
		logger:     logger.Named("views"),
	}
}

// WithWorkers fixe le nombre de workers des sommes cumulées (1 = séquentiel)
func (s *ViewService) WithWorkers(n int) *ViewService {
	if n < 1 {
		n = 1
	}
	s.workers = n
	return s
}

// WithCacheTTL fixe la durée de vie des vues matérialisées
func (s *ViewService) WithCacheTTL(ttl time.Duration) *ViewService {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

// Classifier retourne le classifier utilisé par les vues
func (s *ViewService) Classifier() *domain.Classifier {
	return s.classifier
}

// Views liste les vues disponibles, dans l'ordre du rapport
func (s *ViewService) Views() []domain.ViewName {
	return []domain.ViewName{
		domain.ViewDeathsByCountry,
		domain.ViewDeathsByContinent,
		domain.ViewVaccinationsByCountry,
		domain.ViewVaccinationsByContinent,
		domain.ViewDeathRateByCountry,
		domain.ViewInfectionRateByCountry,
		domain.ViewHighestInfectionByCountry,
		domain.ViewHighestDeathsByCountry,
		domain.ViewHighestDeathsByContinent,
		domain.ViewGlobalNumbers,
		domain.ViewVaccinationCoverageByCountry,
	}
}

// Evaluate calcule une vue sur le snapshot courant, sans cache
func (s *ViewService) Evaluate(ctx context.Context, name domain.ViewName) (domain.Result, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, snap, name)
}

// Materialize retourne la vue depuis le cache ou la calcule puis la stocke.
// La clé porte le snapshot et l'empreinte des règles: un rechargement ou
// un changement de règles donne une nouvelle clé.
func (s *ViewService) Materialize(ctx context.Context, name domain.ViewName) (domain.Result, error) {
	snap, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}

	cacheKey := s.buildCacheKey(snap, name)
	if cached, found := s.cache.Get(cacheKey); found {
		s.logger.Debug("view cache hit", zap.String("view", string(name)))
		return cached.(domain.Result), nil
	}

	result, err := s.evaluate(ctx, snap, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey, result, s.cacheTTL)
	return result, nil
}

func (s *ViewService) buildCacheKey(snap *recordsdomain.Snapshot, name domain.ViewName) string {
	return sharedinfra.NewCacheKeyBuilder().
		Add("view").
		Add(snap.ID().String()).
		AddUint(s.classifier.Fingerprint()).
		Add(string(name)).
		Build()
}

func (s *ViewService) evaluate(ctx context.Context, snap *recordsdomain.Snapshot, name domain.ViewName) (domain.Result, error) {
	start := time.Now()

	var (
		result domain.Result
		err    error
	)
	switch name {
	case domain.ViewDeathsByCountry:
		result, err = s.deathsByCountry(ctx, snap)
	case domain.ViewDeathsByContinent:
		result, err = s.deathsByContinent(ctx, snap)
	case domain.ViewVaccinationsByCountry:
		result, err = s.vaccinationsByCountry(ctx, snap)
	case domain.ViewVaccinationsByContinent:
		result, err = s.vaccinationsByContinent(ctx, snap)
	case domain.ViewDeathRateByCountry:
		result, err = s.deathRateByCountry(ctx, snap)
	case domain.ViewInfectionRateByCountry:
		result, err = s.infectionRateByCountry(ctx, snap)
	case domain.ViewHighestInfectionByCountry:
		result, err = s.highestInfectionByCountry(ctx, snap)
	case domain.ViewHighestDeathsByCountry:
		result, err = s.highestDeathsByCountry(ctx, snap)
	case domain.ViewHighestDeathsByContinent:
		result, err = s.highestDeathsByContinent(ctx, snap)
	case domain.ViewGlobalNumbers:
		result, err = s.globalNumbers(ctx, snap)
	case domain.ViewVaccinationCoverageByCountry:
		result, err = s.vaccinationCoverageByCountry(ctx, snap)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownView, name)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", name, err)
	}

	s.logger.Debug("view evaluated",
		zap.String("view", string(name)),
		zap.String("snapshot", snap.ID().String()),
		zap.Int("rows", result.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// evaluateTyped récupère le snapshot courant puis applique un builder typé
func evaluateTyped[R domain.Row](
	ctx context.Context,
	store SnapshotProvider,
	build func(context.Context, *recordsdomain.Snapshot) (*domain.ResultSet[R], error),
) (*domain.ResultSet[R], error) {
	snap, err := store.Snapshot()
	if err != nil {
		return nil, err
	}
	return build(ctx, snap)
}

// DeathsByCountry décès quotidiens et cumulés des pays
func (s *ViewService) DeathsByCountry(ctx context.Context) (*domain.ResultSet[domain.DeathsByCountryRow], error) {
	return evaluateTyped(ctx, s.store, s.deathsByCountry)
}

// DeathsByContinent décès cumulés des agrégats continentaux
func (s *ViewService) DeathsByContinent(ctx context.Context) (*domain.ResultSet[domain.DeathsByContinentRow], error) {
	return evaluateTyped(ctx, s.store, s.deathsByContinent)
}

// VaccinationsByCountry personnes vaccinées (cumul glissant) par pays
func (s *ViewService) VaccinationsByCountry(ctx context.Context) (*domain.ResultSet[domain.VaccinationsByCountryRow], error) {
	return evaluateTyped(ctx, s.store, s.vaccinationsByCountry)
}

// VaccinationsByContinent population vaccinée (cumul glissant) par agrégat
func (s *ViewService) VaccinationsByContinent(ctx context.Context) (*domain.ResultSet[domain.VaccinationsByContinentRow], error) {
	return evaluateTyped(ctx, s.store, s.vaccinationsByContinent)
}

func (s *ViewService) DeathRateByCountry(ctx context.Context) (*domain.ResultSet[domain.DeathRateRow], error) {
	return evaluateTyped(ctx, s.store, s.deathRateByCountry)
}

func (s *ViewService) InfectionRateByCountry(ctx context.Context) (*domain.ResultSet[domain.InfectionRateRow], error) {
	return evaluateTyped(ctx, s.store, s.infectionRateByCountry)
}

func (s *ViewService) HighestInfectionByCountry(ctx context.Context) (*domain.ResultSet[domain.HighestInfectionRow], error) {
	return evaluateTyped(ctx, s.store, s.highestInfectionByCountry)
}

func (s *ViewService) HighestDeathsByCountry(ctx context.Context) (*domain.ResultSet[domain.DeathCountRow], error) {
	return evaluateTyped(ctx, s.store, s.highestDeathsByCountry)
}

func (s *ViewService) HighestDeathsByContinent(ctx context.Context) (*domain.ResultSet[domain.DeathCountRow], error) {
	return evaluateTyped(ctx, s.store, s.highestDeathsByContinent)
}

func (s *ViewService) GlobalNumbers(ctx context.Context) (*domain.ResultSet[domain.GlobalNumbersRow], error) {
	return evaluateTyped(ctx, s.store, s.globalNumbers)
}

func (s *ViewService) VaccinationCoverageByCountry(ctx context.Context) (*domain.ResultSet[domain.VaccinationCoverageRow], error) {
	return evaluateTyped(ctx, s.store, s.vaccinationCoverageByCountry)
}
