package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// Init ouvre la connexion PostgreSQL globale
func Init(connStr string) error {
	db, err := Open(connStr)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open ouvre et vérifie une connexion PostgreSQL
func Open(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Pool de connexions: deux lectures parallèles au chargement, COPY à l'import
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
