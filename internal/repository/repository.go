// Package repository implements entity persistence on a types.Executor.
//
// Repository[E] is the generic query builder and CRUD implementation; it is
// driven entirely by the entity's mapping.Schema. Joined reads (FindAll,
// FindByID, Query) select the owning table with one LEFT OUTER JOIN per
// association and return entities whose associations are resolved when the
// referenced row exists. Single-table reads (FindByAssociation and
// FindAllWhereAssociationIsNull) return entities whose associations carry
// only the foreign key.
//
// Writes touch only the owning row. Related entities are saved through
// their own repositories.
package repository

import (
	"context"
	"fmt"
	"iter"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/mesh-intelligence/ledger/internal/logger"
	"github.com/mesh-intelligence/ledger/internal/mapping"
	"github.com/mesh-intelligence/ledger/internal/query"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Repository persists entities of type E described by a schema.
type Repository[E any] struct {
	exec   types.Executor
	schema *mapping.Schema[E]
}

// New returns a repository for schema on exec.
func New[E any](exec types.Executor, schema *mapping.Schema[E]) *Repository[E] {
	return &Repository[E]{exec: exec, schema: schema}
}

// Schema returns the entity schema.
func (r *Repository[E]) Schema() *mapping.Schema[E] {
	return r.schema
}

// Query streams the entities matching cond through the joined select,
// sorted and paged by page. Both cond and page may be nil. Sort columns
// must be columns of the owning table.
//
// The statement is sent when iteration starts and rows are mapped one at a
// time; stopping early releases the cursor.
func (r *Repository[E]) Query(ctx context.Context, page *types.Pageable, cond query.Condition) iter.Seq2[*E, error] {
	if err := r.validatePage(page); err != nil {
		return failed[E](err)
	}
	return r.stream(ctx, r.schema.Joined().Where(cond).Page(page), r.schema.MapJoined)
}

// FindAll streams every entity through the joined select.
func (r *Repository[E]) FindAll(ctx context.Context, page *types.Pageable) iter.Seq2[*E, error] {
	return r.Query(ctx, page, nil)
}

// FindByID loads one entity through the joined select.
func (r *Repository[E]) FindByID(ctx context.Context, id int64) (mo.Option[*E], error) {
	for e, err := range r.Query(ctx, nil, r.idCondition(id)) {
		if err != nil {
			return mo.None[*E](), err
		}
		return mo.Some(e), nil
	}
	return mo.None[*E](), nil
}

// ExistsByID reports whether a row with id exists.
func (r *Repository[E]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	owner := r.schema.Owner()
	sel := query.From(owner).Raw("1").Where(r.idCondition(id)).Limit(1)
	sqlText, args := sel.Build(r.exec.Dialect())
	for _, err := range r.exec.Execute(ctx, sqlText, args...) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// FindByAssociation streams the entities whose association role references
// id, read from the owning table only.
func (r *Repository[E]) FindByAssociation(ctx context.Context, role string, id int64) iter.Seq2[*E, error] {
	a, ok := r.schema.Association(role)
	if !ok {
		return failed[E](fmt.Errorf("%w: %s.%s", types.ErrUnknownAssociation, r.schema.Table, role))
	}
	cond := query.Eq(r.schema.Owner().Column(a.Column), id)
	return r.stream(ctx, r.schema.Plain().Where(cond), r.mapOwner)
}

// FindAllWhereAssociationIsNull streams the entities whose association role
// is NULL, read from the owning table only.
func (r *Repository[E]) FindAllWhereAssociationIsNull(ctx context.Context, role string) iter.Seq2[*E, error] {
	a, ok := r.schema.Association(role)
	if !ok {
		return failed[E](fmt.Errorf("%w: %s.%s", types.ErrUnknownAssociation, r.schema.Table, role))
	}
	cond := query.IsNull(r.schema.Owner().Column(a.Column))
	return r.stream(ctx, r.schema.Plain().Where(cond), r.mapOwner)
}

// Save writes the owning row of e. A transient entity is inserted and gets
// its generated id assigned; a persisted one is updated, failing with
// ErrNotFound if the row is gone. Foreign-key violations fail with
// ErrConflict.
func (r *Repository[E]) Save(ctx context.Context, e *E) (*E, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil %s", types.ErrInvalidData, r.schema.Table)
	}
	id := r.schema.ID(e)
	newID, err := r.exec.InsertOrUpdate(ctx, r.schema.Table, id, r.schema.Values(e))
	if err != nil {
		return nil, err
	}
	if id.IsAbsent() {
		if err := r.schema.AssignID(e, newID); err != nil {
			return nil, err
		}
	}
	logger.FromContext(ctx).WithField("table", r.schema.Table).WithField("id", newID).Debug("saved")
	return e, nil
}

// Update saves e if its row exists and returns mo.None otherwise. The
// existence check and the write are separate statements.
func (r *Repository[E]) Update(ctx context.Context, e *E) (mo.Option[*E], error) {
	id, ok := r.schema.ID(e).Get()
	if !ok {
		return mo.None[*E](), fmt.Errorf("%w: update of a transient %s", types.ErrInvalidID, r.schema.Table)
	}
	exists, err := r.ExistsByID(ctx, id)
	if err != nil || !exists {
		return mo.None[*E](), err
	}
	saved, err := r.Save(ctx, e)
	if err != nil {
		return mo.None[*E](), err
	}
	return mo.Some(saved), nil
}

// Patch copies the scalar fields present in patch into the stored entity
// with the same id and saves it. Associations of the stored entity are
// kept. Returns mo.None if no row with that id exists.
func (r *Repository[E]) Patch(ctx context.Context, patch *E) (mo.Option[*E], error) {
	if patch == nil {
		return mo.None[*E](), fmt.Errorf("%w: nil %s", types.ErrInvalidData, r.schema.Table)
	}
	id, ok := r.schema.ID(patch).Get()
	if !ok {
		return mo.None[*E](), fmt.Errorf("%w: patch of a transient %s", types.ErrInvalidID, r.schema.Table)
	}
	found, err := r.FindByID(ctx, id)
	if err != nil {
		return mo.None[*E](), err
	}
	existing, ok := found.Get()
	if !ok {
		return found, nil
	}
	r.schema.Merge(existing, patch)
	if _, err := r.Save(ctx, existing); err != nil {
		return mo.None[*E](), err
	}
	return mo.Some(existing), nil
}

// DeleteByID deletes the row with id. Deleting a missing row succeeds; a
// row still referenced by another table fails with ErrConflict.
func (r *Repository[E]) DeleteByID(ctx context.Context, id int64) error {
	n, err := r.exec.DeleteByPrimaryKey(ctx, r.schema.Table, id)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).WithField("table", r.schema.Table).WithField("id", id).WithField("rows", n).Debug("deleted")
	return nil
}

func (r *Repository[E]) idCondition(id int64) query.Condition {
	return query.Eq(r.schema.Owner().Column(mapping.IDColumn), id)
}

func (r *Repository[E]) mapOwner(row types.Row) (*E, error) {
	return r.schema.Map(row, mapping.OwnerPrefix)
}

func (r *Repository[E]) validatePage(page *types.Pageable) error {
	if page == nil {
		return nil
	}
	if page.Page < 0 || page.Size < 0 {
		return fmt.Errorf("%w: page %d size %d", types.ErrInvalidFilter, page.Page, page.Size)
	}
	if o, bad := lo.Find(page.Sort, func(o types.Order) bool { return !r.schema.HasColumn(o.Column) }); bad {
		return fmt.Errorf("%w: %s has no column %q", types.ErrInvalidSort, r.schema.Table, o.Column)
	}
	return nil
}

func (r *Repository[E]) stream(ctx context.Context, sel *query.Select, mapRow func(types.Row) (*E, error)) iter.Seq2[*E, error] {
	return func(yield func(*E, error) bool) {
		sqlText, args := sel.Build(r.exec.Dialect())
		log := logger.FromContext(ctx).WithField("table", r.schema.Table)
		log.WithField("sql", sqlText).WithField("args", args).Debug("query")

		n := 0
		for row, err := range r.exec.Execute(ctx, sqlText, args...) {
			if err != nil {
				yield(nil, err)
				return
			}
			e, err := mapRow(row)
			if err != nil {
				yield(nil, fmt.Errorf("map %s row: %w", r.schema.Table, err))
				return
			}
			n++
			if !yield(e, nil) {
				log.WithField("rows", n).Debug("query stopped early")
				return
			}
		}
		log.WithField("rows", n).Debug("query done")
	}
}

func failed[E any](err error) iter.Seq2[*E, error] {
	return func(yield func(*E, error) bool) {
		yield(nil, err)
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[E any](seq iter.Seq2[*E, error]) ([]*E, error) {
	var out []*E
	for e, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
