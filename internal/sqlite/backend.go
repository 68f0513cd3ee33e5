// Package sqlite implements the embedded storage backend on modernc.org/sqlite.
// The database lives in a single file under the configured data directory and
// is created with every ledger table on first attach.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mesh-intelligence/ledger/internal/sqldb"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "ledger.db"

// Backend implements types.Backend on a SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	exec     *sqldb.Executor
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the database, creating DataDir and the tables if they do not
// exist. Existing rows are kept. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dsn, err := dataSource(config)
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	exec := sqldb.New(db, Dialect{}, sqldb.WithErrorTranslator(translateError))
	if err := createSchema(context.Background(), exec); err != nil {
		db.Close()
		return err
	}

	b.exec = exec
	b.config = config
	b.attached = true
	return nil
}

// dataSource returns the driver DSN for config. An explicit DSN names the
// database file; otherwise the file is DBFile under DataDir.
func dataSource(config types.Config) (string, error) {
	path := config.DSN
	if path == "" {
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", err
		}
		path = filepath.Join(dataDir, DBFile)
	}

	// Pragmas in the DSN apply to every pooled connection.
	pragmas := []string{"_pragma=busy_timeout(5000)"}
	if !config.SkipForeignKeys {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(pragmas, "&"), nil
}

// Detach closes the database. After Detach, Executor returns
// ErrBackendDetached. Detach is idempotent.
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
