package services

import (
	"database/sql"

	"tableside_backend/internal/repositories"
)

// Tx is the slice of *sql.Tx the services use: statement execution plus
// commit/rollback.
type Tx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

// Database is the slice of *sql.DB the services depend on. Repository calls
// outside a transaction go through the embedded SQLExecutor; transactional
// sequences start with Begin. Tests substitute in-memory implementations.
type Database interface {
	repositories.SQLExecutor
	Begin() (Tx, error)
}

type sqlDatabase struct {
	*sql.DB
}

func (d sqlDatabase) Begin() (Tx, error) {
	return d.DB.Begin()
}

// NewDatabase adapts a *sql.DB to the Database interface.
func NewDatabase(db *sql.DB) Database {
	return sqlDatabase{DB: db}
}
