package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"covidstats/database"
	analyticsapp "covidstats/internal/analytics/application"
	"covidstats/internal/config"
	exportapp "covidstats/internal/export/application"
	recordsapp "covidstats/internal/records/application"
	recordsdomain "covidstats/internal/records/domain"
	recordsinfra "covidstats/internal/records/infrastructure"
	sharedinfra "covidstats/internal/shared/infrastructure"
)

// cacheShards nombre de shards du cache des vues matérialisées
const cacheShards = 16

// App assemble les services à partir de la configuration
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *recordsapp.RecordStore
	Views   *analyticsapp.ViewService
	Exports *exportapp.ExportService

	cache *sharedinfra.ShardedCache
	db    *sql.DB
}

// New crée les services; aucune donnée n'est chargée
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	classifier, err := cfg.Rules.Classifier()
	if err != nil {
		return nil, err
	}

	store := recordsapp.NewRecordStore(logger)
	cache := sharedinfra.NewShardedCache(cacheShards)
	views := analyticsapp.NewViewService(store, classifier, cache, logger).
		WithWorkers(cfg.AggregationWorkers).
		WithCacheTTL(cfg.ViewCacheTTL)

	logger.Info("exclusion rules",
		zap.Stringers("rules", classifier.Rules()),
		zap.Bool("case_sensitive", classifier.CaseSensitive()),
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Views:   views,
		Exports: exportapp.NewExportService(views, logger).WithMaterialize(cfg.MaterializeViews),
		cache:   cache,
	}, nil
}

// Source construit la source configurée (fichiers CSV ou PostgreSQL)
func (a *App) Source() (recordsapp.Source, error) {
	switch a.Config.DataSource {
	case config.SourcePostgres:
		if a.db == nil {
			db, err := database.Open(a.Config.DB.DSN())
			if err != nil {
				return nil, fmt.Errorf("connect postgres: %w", err)
			}
			a.db = db
		}
		return recordsinfra.NewPostgresSource(a.db, a.Config.DeathsTable, a.Config.VaccinationsTable), nil
	default:
		return recordsinfra.NewCSVFileSource(a.Config.CasesCSV, a.Config.VaccinationsCSV), nil
	}
}

// Reload charge un nouveau snapshot depuis la source configurée
func (a *App) Reload(ctx context.Context) (*recordsdomain.Snapshot, error) {
	source, err := a.Source()
	if err != nil {
		return nil, err
	}
	return a.Store.Load(ctx, source)
}

// Close libère le cache et la connexion éventuelle
func (a *App) Close() error {
	a.cache.Close()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
