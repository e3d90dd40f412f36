// Package sqldb implements storage.Store on top of database/sql.
//
// The SQL is written once with '?' placeholders; a Dialect rewrites it for
// the backend and recognizes the backend's unique-violation errors. The
// sqlite and postgres packages provide the dialects and open the database.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage"
)

// Dialect captures what differs between SQL backends.
type Dialect interface {
	// Name identifies the backend in logs.
	Name() string

	// Rebind rewrites '?' placeholders into the backend's syntax.
	Rebind(query string) string

	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool

	// LockClause is appended to SELECTs that must lock the rows they read
	// inside a transaction. Empty when the backend serializes writers.
	LockClause() string
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a *sql.DB.
type Store struct {
	*queries
	db *sql.DB
}

// queries implements storage.Queries against either the pool or a
// transaction.
type queries struct {
	db      dbtx
	dialect Dialect
}

// New wraps an open database. It runs the schema migrations before
// returning.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if err := migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{
		queries: &queries{db: db, dialect: dialect},
		db:      db,
	}, nil
}

// InTx runs fn inside a transaction.
func (s *Store) InTx(ctx context.Context, fn func(q storage.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{db: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (q *queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...)
}

// insertErr classifies an insert/update failure, turning unique violations
// into models.ErrConflict.
func (q *queries) insertErr(err error, what string) error {
	if q.dialect.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s already exists", models.ErrConflict, what)
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

// expectOne turns a zero-row update or delete into models.ErrNotFound.
func expectOne(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", models.ErrNotFound, what, id)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", models.ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
