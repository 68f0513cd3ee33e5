// Package postgres implements the server storage backend on lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lib/pq"

	"github.com/mesh-intelligence/ledger/internal/logger"
	"github.com/mesh-intelligence/ledger/internal/sqldb"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// DefaultSchema is used when the config names no schema.
const DefaultSchema = "public"

// Backend implements types.Backend on a PostgreSQL database. Tables live in
// the configured schema, which is created if missing.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	exec     *sqldb.Executor
}

// NewBackend creates a detached PostgreSQL backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach connects to config.DSN and creates the schema and tables if they
// do not exist. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	schema := config.Schema
	if schema == "" {
		schema = DefaultSchema
	}
	logger.Default().WithField("schema", schema).Debug("connecting to postgres")

	db, err := sql.Open("postgres", withSearchPath(config.DSN, schema))
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("connect postgres: %w", err)
	}

	exec := sqldb.New(db, Dialect{}, sqldb.WithReturning(), sqldb.WithErrorTranslator(translateError))
	if schema != DefaultSchema {
		if _, err := exec.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema)); err != nil {
			db.Close()
			return fmt.Errorf("create schema %s: %w", schema, err)
		}
	}
	if err := createSchema(ctx, exec); err != nil {
		db.Close()
		return err
	}

	b.exec = exec
	b.attached = true
	return nil
}

// withSearchPath adds search_path to a URL or key=value connection string.
func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema
	}
	return strings.TrimSpace(dsn) + " search_path=" + schema
}

// Detach closes the connection pool. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.exec.DB().Close(); err != nil {
		return err
	}
	b.exec = nil
	b.attached = false
	return nil
}

// Executor returns the statement executor of the attached database.
func (b *Backend) Executor() (types.Executor, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.exec, nil
}

// Dialect renders statements for PostgreSQL: "$n" placeholders and
// double-quoted identifiers, which keep the case of column aliases.
type Dialect struct{}

func (Dialect) Name() string { return types.BackendPostgres }

func (Dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Dialect) Quote(ident string) string { return pq.QuoteIdentifier(ident) }

// translateError maps integrity constraint violations (class 23) to
// types.ErrConflict.
func translateError(err error) error {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code.Class() == "23" {
		return fmt.Errorf("%w: %v", types.ErrConflict, err)
	}
	return err
}
