package postgres

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/ledger/internal/sqldb"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS jhi_user (
    id BIGSERIAL PRIMARY KEY,
    login VARCHAR(50) NOT NULL UNIQUE,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    email VARCHAR(191),
    activated BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE TABLE IF NOT EXISTS resource_data (
    id BIGSERIAL PRIMARY KEY,
    gold DOUBLE PRECISION,
    wood DOUBLE PRECISION,
    fer DOUBLE PRECISION,
    register_user_id BIGINT REFERENCES jhi_user(id)
)`,
	`CREATE TABLE IF NOT EXISTS resource_got (
    id BIGSERIAL PRIMARY KEY,
    gold DOUBLE PRECISION,
    wood DOUBLE PRECISION,
    fer DOUBLE PRECISION,
    register_user_id BIGINT REFERENCES jhi_user(id)
)`,
	`CREATE TABLE IF NOT EXISTS client (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE REFERENCES jhi_user(id),
    company_id BIGINT UNIQUE REFERENCES resource_data(id)
)`,
	`CREATE TABLE IF NOT EXISTS resource (
    id BIGSERIAL PRIMARY KEY,
    gold DOUBLE PRECISION,
    wood DOUBLE PRECISION,
    fer DOUBLE PRECISION,
    client_id BIGINT REFERENCES client(id)
)`,
	`CREATE TABLE IF NOT EXISTS user_profile (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE REFERENCES jhi_user(id),
    resource_id BIGINT UNIQUE REFERENCES resource_data(id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_resource_data_register_user ON resource_data(register_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resource_got_register_user ON resource_got(register_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resource_client ON resource(client_id)`,
}

func createSchema(ctx context.Context, exec *sqldb.Executor) error {
	for _, stmt := range schema {
		if _, err := exec.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}
