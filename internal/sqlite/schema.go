package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/ledger/internal/sqldb"
)

// Tables in dependency order; a table only references tables created
// before it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS jhi_user (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    login TEXT NOT NULL UNIQUE,
    first_name TEXT,
    last_name TEXT,
    email TEXT,
    activated INTEGER NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS resource_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    gold REAL,
    wood REAL,
    fer REAL,
    register_user_id INTEGER REFERENCES jhi_user(id)
)`,
	`CREATE TABLE IF NOT EXISTS resource_got (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    gold REAL,
    wood REAL,
    fer REAL,
    register_user_id INTEGER REFERENCES jhi_user(id)
)`,
	`CREATE TABLE IF NOT EXISTS client (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER UNIQUE REFERENCES jhi_user(id),
    company_id INTEGER UNIQUE REFERENCES resource_data(id)
)`,
	`CREATE TABLE IF NOT EXISTS resource (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    gold REAL,
    wood REAL,
    fer REAL,
    client_id INTEGER REFERENCES client(id)
)`,
	`CREATE TABLE IF NOT EXISTS user_profile (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER UNIQUE REFERENCES jhi_user(id),
    resource_id INTEGER UNIQUE REFERENCES resource_data(id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_resource_data_register_user ON resource_data(register_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resource_got_register_user ON resource_got(register_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resource_client ON resource(client_id)`,
}

func createSchema(ctx context.Context, exec *sqldb.Executor) error {
	for _, stmt := range schema {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
