// Package mapping describes how each entity is laid out in its table and
// moves values between flat result rows and entity structs.
//
// A Schema lists the primary key, the scalar columns and the foreign-key
// columns of one entity. From that single description it derives the
// aliased select list of the entity (the column helper), the row mapper
// that rebuilds the entity from a row, and the column values written on
// save.
//
// Column aliases have the form prefix_column. The owning table of a query
// always uses OwnerPrefix; joined relations use their role name.
package mapping

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/mesh-intelligence/ledger/internal/convert"
	"github.com/mesh-intelligence/ledger/internal/query"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

const (
	// IDColumn is the primary key column of every table.
	IDColumn = "id"
	// OwnerPrefix is the alias prefix and table alias of the owning table.
	OwnerPrefix = "e"
)

// Alias returns the result column alias of column under prefix.
func Alias(prefix, column string) string {
	return prefix + "_" + column
}

// Schema is the static table description of entity type E.
type Schema[E any] struct {
	Table string

	identity func(*E) *types.Identity
	fields   []Field[E]
	assocs   []Association[E]
}

// New describes entity E stored in table. identity returns the embedded
// Identity of an entity.
func New[E any](table string, identity func(*E) *types.Identity, fields ...Field[E]) *Schema[E] {
	return &Schema[E]{Table: table, identity: identity, fields: fields}
}

// With appends associations to the schema and returns it.
func (s *Schema[E]) With(assocs ...Association[E]) *Schema[E] {
	s.assocs = append(s.assocs, assocs...)
	return s
}

// ColumnNames returns the id, the scalar columns and the foreign-key
// columns in declaration order.
func (s *Schema[E]) ColumnNames() []string {
	names := make([]string, 0, 1+len(s.fields)+len(s.assocs))
	names = append(names, IDColumn)
	for _, f := range s.fields {
		names = append(names, f.Column)
	}
	for _, a := range s.assocs {
		names = append(names, a.Column)
	}
	return names
}

// HasColumn reports whether name is a column of the table.
func (s *Schema[E]) HasColumn(name string) bool {
	return lo.Contains(s.ColumnNames(), name)
}

// Associations returns the associations in declaration order.
func (s *Schema[E]) Associations() []Association[E] {
	return s.assocs
}

// Association finds an association by role name or foreign-key column.
func (s *Schema[E]) Association(name string) (Association[E], bool) {
	return lo.Find(s.assocs, func(a Association[E]) bool {
		return a.Role == name || a.Column == name
	})
}

// Columns returns the aliased select list of the table read under t, with
// every column aliased as prefix_column.
func (s *Schema[E]) Columns(t query.Table, prefix string) []query.Column {
	return lo.Map(s.ColumnNames(), func(name string, _ int) query.Column {
		return query.Column{Table: t, Name: name, Alias: Alias(prefix, name)}
	})
}

// Owner returns the owning table under OwnerPrefix.
func (s *Schema[E]) Owner() query.Table {
	return query.Aliased(s.Table, OwnerPrefix)
}

// Plain starts a single-table select of the entity. Rows map with Map and
// leave every association unresolved.
func (s *Schema[E]) Plain() *query.Select {
	owner := s.Owner()
	return query.From(owner).Columns(s.Columns(owner, OwnerPrefix)...)
}

// Joined starts a select of the entity with one LEFT OUTER JOIN per
// association, the target aliased by its role name. Rows map with MapJoined.
func (s *Schema[E]) Joined() *query.Select {
	owner := s.Owner()
	sel := query.From(owner).Columns(s.Columns(owner, OwnerPrefix)...)
	for _, a := range s.assocs {
		target := query.Aliased(a.Target, a.Role)
		sel.Columns(a.columns(target, a.Role)...).
			LeftOuterJoin(target, a.Column, IDColumn)
	}
	return sel
}

// Map builds an entity from the columns of row aliased under prefix.
// Foreign keys are stored as unresolved references; no related object is
// created.
func (s *Schema[E]) Map(row types.Row, prefix string) (*E, error) {
	e := new(E)
	id, err := convert.Int64(row, Alias(prefix, IDColumn))
	if err != nil {
		return nil, err
	}
	if v, ok := id.Get(); ok {
		if err := s.identity(e).AssignID(v); err != nil {
			return nil, err
		}
	}
	for _, f := range s.fields {
		v, err := convert.Convert(row, Alias(prefix, f.Column), f.Kind)
		if err != nil {
			return nil, err
		}
		f.load(e, v)
	}
	for _, a := range s.assocs {
		key, err := convert.Int64(row, Alias(prefix, a.Column))
		if err != nil {
			return nil, err
		}
		a.setKey(e, key)
	}
	return e, nil
}

// MapJoined builds an entity from a row of Joined, resolving each
// association whose joined target id is present.
func (s *Schema[E]) MapJoined(row types.Row) (*E, error) {
	e, err := s.Map(row, OwnerPrefix)
	if err != nil {
		return nil, err
	}
	for _, a := range s.assocs {
		if err := a.resolve(e, row, a.Role); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ID returns the primary key of e.
func (s *Schema[E]) ID(e *E) mo.Option[int64] {
	if id, ok := s.identity(e).ID(); ok {
		return mo.Some(id)
	}
	return mo.None[int64]()
}

// AssignID sets the primary key of e.
func (s *Schema[E]) AssignID(e *E, id int64) error {
	return s.identity(e).AssignID(id)
}

// Values returns the column values of e written on save: the scalar
// columns followed by the foreign keys. The id is not included.
func (s *Schema[E]) Values(e *E) []types.ColumnValue {
	values := make([]types.ColumnValue, 0, len(s.fields)+len(s.assocs))
	for _, f := range s.fields {
		values = append(values, types.ColumnValue{Column: f.Column, Value: f.value(e)})
	}
	for _, a := range s.assocs {
		var v any
		if key, ok := a.key(e).Get(); ok {
			v = key
		}
		values = append(values, types.ColumnValue{Column: a.Column, Value: v})
	}
	return values
}

// Merge copies the scalar fields present in src into dst. Absent (nil)
// optional fields and zero-valued required fields are left untouched, as
// are the id and the associations.
func (s *Schema[E]) Merge(dst, src *E) {
	for _, f := range s.fields {
		f.merge(dst, src)
	}
}

// Assign parses text for column and stores it in e. column may name a
// scalar column, a foreign-key column or an association role; an empty
// text or "null" clears the value.
func (s *Schema[E]) Assign(e *E, column, text string) error {
	if f, ok := lo.Find(s.fields, func(f Field[E]) bool { return f.Column == column }); ok {
		v, err := convert.FromString(f.Kind, text)
		if err != nil {
			return fmt.Errorf("%s: %w", column, err)
		}
		f.load(e, v)
		return nil
	}
	if a, ok := s.Association(column); ok {
		v, err := convert.FromString(convert.KindID, text)
		if err != nil {
			return fmt.Errorf("%s: %w", column, err)
		}
		if v == nil {
			a.setKey(e, mo.None[int64]())
			return nil
		}
		id := v.(int64)
		if id <= 0 {
			return fmt.Errorf("%s: %w", column, types.ErrInvalidID)
		}
		a.setKey(e, mo.Some(id))
		return nil
	}
	if column == IDColumn {
		return fmt.Errorf("%w: %s is assigned by the store", types.ErrInvalidData, IDColumn)
	}
	return fmt.Errorf("%w: %s", types.ErrUnknownColumn, column)
}
