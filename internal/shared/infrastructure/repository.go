package infrastructure

import (
	"context"
	"database/sql"
)

// Executor abstraction commune à *sql.DB et *sql.Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// UnitOfWork gère les transactions pour les opérations d'écriture (import)
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// DBUnitOfWork implémentation de UnitOfWork avec sql.DB
type DBUnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork crée une nouvelle instance de UnitOfWork
func NewUnitOfWork(db *sql.DB) UnitOfWork {
	return &DBUnitOfWork{db: db}
}

// Execute exécute une fonction dans une transaction.
// Rollback sur erreur ou panic, Commit sinon.
func (uow *DBUnitOfWork) Execute(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := uow.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}

	return tx.Commit()
}

// BaseRepository structure de base pour les repositories en lecture
type BaseRepository struct {
	db  *sql.DB
	ctx context.Context
}

// NewBaseRepository crée un nouveau repository de base
func NewBaseRepository(db *sql.DB) BaseRepository {
	return BaseRepository{
		db:  db,
		ctx: context.Background(),
	}
}

// WithContext retourne une copie liée au contexte donné
func (r BaseRepository) WithContext(ctx context.Context) BaseRepository {
	r.ctx = ctx
	return r
}

// Executor retourne l'exécuteur des requêtes de lecture
func (r *BaseRepository) Executor() Executor {
	return r.db
}

// Query exécute une requête de lecture
func (r *BaseRepository) Query(query string, args ...any) (*sql.Rows, error) {
	return r.Executor().QueryContext(r.ctx, query, args...)
}
