package repository

import (
	"database/sql"
	"log/slog"

	"earnings-ledger/internal/domain"
)

// Store is the entry point to all repository operations.
//
// Every write path in this service is a single SQL statement, so the
// store carries no explicit transaction machinery: the balance increment
// relies on the statement-level atomicity of UPDATE ... RETURNING and the
// engine's row locking to serialize concurrent callers.
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

// NewStore creates a new Store instance backed by the given database.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		executor: db,
		logger:   logger,
	}
}

// Account returns an AccountRepository using the store's executor.
func (s *Store) Account() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}
