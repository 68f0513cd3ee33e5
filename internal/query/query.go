// Package query renders the SELECT statements of the repository layer: an
// aliased column list spanning the owning table and its joined relations,
// one LEFT OUTER JOIN per association, an optional predicate on the owning
// table, and optional sorting and paging.
package query

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Table is a table reference under the alias it carries in one statement.
type Table struct {
	Name  string
	Alias string
}

// Aliased returns a reference to table name under alias.
func Aliased(name, alias string) Table {
	return Table{Name: name, Alias: alias}
}

// Column returns a reference to column name of t.
func (t Table) Column(name string) ColumnRef {
	return ColumnRef{Table: t, Name: name}
}

func (t Table) qualifier(d types.Dialect) string {
	if t.Alias == "" {
		return t.Name
	}
	return d.Quote(t.Alias)
}

func (t Table) from(d types.Dialect) string {
	if t.Alias == "" {
		return t.Name
	}
	return t.Name + " " + d.Quote(t.Alias)
}

// ColumnRef is a column qualified by its table. Table aliases are quoted
// when rendered, so role names such as "user" are safe on every backend.
type ColumnRef struct {
	Table Table
	Name  string
}

func (r ColumnRef) render(d types.Dialect) string {
	return r.Table.qualifier(d) + "." + r.Name
}

// Column is one aliased select expression: table.name AS alias.
type Column struct {
	Table Table
	Name  string
	Alias string
}

func (c Column) render(d types.Dialect) string {
	return c.Table.Column(c.Name).render(d) + " AS " + d.Quote(c.Alias)
}

type join struct {
	target       Table
	ownerColumn  string
	targetColumn string
}

// Select is a SELECT statement under construction.
type Select struct {
	from    Table
	columns []Column
	joins   []join
	where   Condition
	page    *types.Pageable
	limit   int
}

// From starts a statement reading from t.
func From(t Table) *Select {
	return &Select{from: t}
}

// Columns appends select expressions in order.
func (s *Select) Columns(cols ...Column) *Select {
	s.columns = append(s.columns, cols...)
	return s
}

// Raw appends an unaliased expression such as "1".
func (s *Select) Raw(expr string) *Select {
	s.columns = append(s.columns, Column{Name: expr})
	return s
}

// LeftOuterJoin joins target on from.ownerColumn = target.targetColumn.
// Rows without a match in target are kept with target's columns NULL.
func (s *Select) LeftOuterJoin(target Table, ownerColumn, targetColumn string) *Select {
	s.joins = append(s.joins, join{target: target, ownerColumn: ownerColumn, targetColumn: targetColumn})
	return s
}

// Where sets the predicate. A nil Condition clears it.
func (s *Select) Where(c Condition) *Select {
	s.where = c
	return s
}

// Page applies sorting and paging. Sort columns refer to the owning table.
func (s *Select) Page(p *types.Pageable) *Select {
	s.page = p
	return s
}

// Limit caps the number of rows when no page is set.
func (s *Select) Limit(n int) *Select {
	s.limit = n
	return s
}

// Build renders the statement and its bind arguments for dialect d.
func (s *Select) Build(d types.Dialect) (string, []any) {
	b := &builder{dialect: d}

	b.sql.WriteString("SELECT ")
	for i, c := range s.columns {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if c.Table.Name == "" && c.Alias == "" {
			b.sql.WriteString(c.Name)
			continue
		}
		b.sql.WriteString(c.render(d))
	}

	b.sql.WriteString(" FROM ")
	b.sql.WriteString(s.from.from(d))
	for _, j := range s.joins {
		fmt.Fprintf(&b.sql, " LEFT OUTER JOIN %s ON %s = %s",
			j.target.from(d), s.from.Column(j.ownerColumn).render(d), j.target.Column(j.targetColumn).render(d))
	}

	if s.where != nil {
		b.sql.WriteString(" WHERE ")
		s.where.render(b)
	}

	limit := s.limit
	offset := 0
	if s.page != nil {
		if len(s.page.Sort) > 0 {
			orders := make([]string, len(s.page.Sort))
			for i, o := range s.page.Sort {
				orders[i] = s.from.Column(o.Column).render(d)
				if o.Desc {
					orders[i] += " DESC"
				} else {
					orders[i] += " ASC"
				}
			}
			b.sql.WriteString(" ORDER BY ")
			b.sql.WriteString(strings.Join(orders, ", "))
		}
		if s.page.Size > 0 {
			limit = s.page.Size
			offset = s.page.Offset()
		}
	}
	if limit > 0 {
		fmt.Fprintf(&b.sql, " LIMIT %d", limit)
		if offset > 0 {
			fmt.Fprintf(&b.sql, " OFFSET %d", offset)
		}
	}

	return b.sql.String(), b.args
}

// builder accumulates SQL text and numbered bind arguments.
type builder struct {
	dialect types.Dialect
	sql     strings.Builder
	args    []any
}

func (b *builder) bind(v any) {
	b.args = append(b.args, v)
	b.sql.WriteString(b.dialect.Placeholder(len(b.args)))
}
