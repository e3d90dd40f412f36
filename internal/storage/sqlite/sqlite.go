// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	moderncsqlite "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Republica-Facil/republica-facil-backend/internal/storage/sqldb"
)

// Dialect is the SQLite flavour of sqldb.Dialect.
type Dialect struct{}

// Name returns "sqlite".
func (Dialect) Name() string { return "sqlite" }

// Rebind is the identity: SQLite understands '?' placeholders.
func (Dialect) Rebind(query string) string { return query }

// LockClause is empty: the store runs on a single connection, so writers
// are already serialized.
func (Dialect) LockClause() string { return "" }

// IsUniqueViolation reports UNIQUE and PRIMARY KEY constraint failures.
func (Dialect) IsUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Primary result code only, when extended codes are not reported.
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// New opens (creating if needed) the SQLite database at dbPath and returns
// a migrated store.
func New(dbPath string) (*sqldb.Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting; passing them in the DSN
	// applies them to every connection the pool opens.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: transactions serialize, which is what keeps
	// check-then-write sequences consistent on SQLite.
	db.SetMaxOpenConns(1)

	store, err := sqldb.New(context.Background(), db, Dialect{})
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}
