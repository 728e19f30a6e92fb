package repository

import (
	"database/sql"
)

// SQLExecutor represents the subset of *sql.DB the repositories need.
// Keeping it as an interface lets tests substitute the executor.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var _ SQLExecutor = (*sql.DB)(nil)
