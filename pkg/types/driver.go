package types

import (
	"context"
	"iter"

	"github.com/samber/mo"
)

// Row is one flat result row. Get returns the raw driver value stored under
// the column name and whether the column exists in the row; a NULL column
// exists and yields a nil value.
type Row interface {
	Get(column string) (any, bool)
}

// ColumnValue is one column assignment of a write.
type ColumnValue struct {
	Column string
	Value  any
}

// Dialect renders the driver-specific parts of a statement.
type Dialect interface {
	// Name returns the backend name (BackendSQLite, BackendPostgres).
	Name() string
	// Placeholder returns the bind marker for the n-th argument, 1-based.
	Placeholder(n int) string
	// Quote quotes an identifier such as a column alias.
	Quote(ident string) string
}

// Executor is the SQL execution collaborator the repository layer runs on.
type Executor interface {
	// Execute runs a query and streams its rows. Rows are pulled one at a
	// time; stopping the iteration early releases the cursor and the
	// pooled connection.
	Execute(ctx context.Context, query string, args ...any) iter.Seq2[Row, error]

	// InsertOrUpdate inserts values into table when id is absent and
	// returns the generated id, or updates the row with the given id and
	// returns it. Updating a missing row returns ErrNotFound.
	InsertOrUpdate(ctx context.Context, table string, id mo.Option[int64], values []ColumnValue) (int64, error)

	// DeleteByPrimaryKey deletes the row with the given id and returns the
	// number of affected rows.
	DeleteByPrimaryKey(ctx context.Context, table string, id int64) (int64, error)

	// Dialect returns the dialect statements must be rendered with.
	Dialect() Dialect
}
