// Package sqldb runs repository statements on a database/sql pool. It is
// shared by the SQLite and PostgreSQL backends, which differ only in their
// dialect, in how an inserted id is returned, and in how driver errors map
// to the repository sentinels.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Executor implements types.Executor on a *sql.DB.
type Executor struct {
	db        *sql.DB
	dialect   types.Dialect
	returning bool
	translate func(error) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithReturning makes inserts read the generated id with RETURNING id
// instead of sql.Result.LastInsertId.
func WithReturning() Option {
	return func(x *Executor) { x.returning = true }
}

// WithErrorTranslator maps driver errors of writes and queries, typically
// constraint violations to types.ErrConflict.
func WithErrorTranslator(fn func(error) error) Option {
	return func(x *Executor) { x.translate = fn }
}

// New returns an executor on db rendering with dialect d.
func New(db *sql.DB, d types.Dialect, opts ...Option) *Executor {
	x := &Executor{db: db, dialect: d, translate: func(err error) error { return err }}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// DB returns the underlying pool.
func (x *Executor) DB() *sql.DB {
	return x.db
}

// Dialect implements types.Executor.
func (x *Executor) Dialect() types.Dialect {
	return x.dialect
}

// Exec runs a statement that returns no rows.
func (x *Executor) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := x.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, x.translate(err)
	}
	return res, nil
}

// Execute implements types.Executor. The query is sent when iteration
// starts; each step scans one row.
func (x *Executor) Execute(ctx context.Context, query string, args ...any) iter.Seq2[types.Row, error] {
	return func(yield func(types.Row, error) bool) {
		rows, err := x.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, x.translate(err))
			return
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			yield(nil, err)
			return
		}
		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := lo.Map(vals, func(_ any, i int) any { return &vals[i] })
			if err := rows.Scan(ptrs...); err != nil {
				yield(nil, err)
				return
			}
			row := make(valueRow, len(cols))
			for i, c := range cols {
				row[c] = vals[i]
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// InsertOrUpdate implements types.Executor.
func (x *Executor) InsertOrUpdate(ctx context.Context, table string, id mo.Option[int64], values []types.ColumnValue) (int64, error) {
	if v, ok := id.Get(); ok {
		return v, x.update(ctx, table, v, values)
	}
	return x.insert(ctx, table, values)
}

func (x *Executor) insert(ctx context.Context, table string, values []types.ColumnValue) (int64, error) {
	var b strings.Builder
	args := make([]any, 0, len(values))
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	if len(values) == 0 {
		b.WriteString(" DEFAULT VALUES")
	} else {
		cols := make([]string, len(values))
		marks := make([]string, len(values))
		for i, cv := range values {
			cols[i] = cv.Column
			args = append(args, cv.Value)
			marks[i] = x.dialect.Placeholder(len(args))
		}
		fmt.Fprintf(&b, " (%s) VALUES (%s)", strings.Join(cols, ", "), strings.Join(marks, ", "))
	}

	if x.returning {
		b.WriteString(" RETURNING id")
		var newID int64
		if err := x.db.QueryRowContext(ctx, b.String(), args...).Scan(&newID); err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, x.translate(err))
		}
		return newID, nil
	}

	res, err := x.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, x.translate(err))
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return newID, nil
}

func (x *Executor) update(ctx context.Context, table string, id int64, values []types.ColumnValue) error {
	if len(values) == 0 {
		// Nothing to write; the row only has to exist.
		var one int
		err := x.db.QueryRowContext(ctx,
			"SELECT 1 FROM "+table+" WHERE id = "+x.dialect.Placeholder(1), id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update %s %d: %w", table, id, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update %s %d: %w", table, id, err)
		}
		return nil
	}

	var b strings.Builder
	args := make([]any, 0, len(values)+1)
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")
	for i, cv := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		args = append(args, cv.Value)
		b.WriteString(cv.Column + " = " + x.dialect.Placeholder(len(args)))
	}
	args = append(args, id)
	b.WriteString(" WHERE id = " + x.dialect.Placeholder(len(args)))

	res, err := x.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", table, id, x.translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s %d: %w", table, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s %d: %w", table, id, types.ErrNotFound)
	}
	return nil
}

// DeleteByPrimaryKey implements types.Executor.
func (x *Executor) DeleteByPrimaryKey(ctx context.Context, table string, id int64) (int64, error) {
	res, err := x.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = "+x.dialect.Placeholder(1), id)
	if err != nil {
		return 0, fmt.Errorf("delete %s %d: %w", table, id, x.translate(err))
	}
	return res.RowsAffected()
}

// valueRow is a scanned row keyed by result column name.
type valueRow map[string]any

func (r valueRow) Get(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}
