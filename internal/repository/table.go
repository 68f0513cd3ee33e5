package repository

import (
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/samber/lo"

	"github.com/mesh-intelligence/ledger/internal/query"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// table adapts a Repository[E] to the untyped types.Table surface.
type table[E any] struct {
	kind string
	repo *Repository[E]
}

// NewTable returns the types.Table of kind backed by repo.
func NewTable[E any](kind string, repo *Repository[E]) types.Table {
	return &table[E]{kind: kind, repo: repo}
}

func (t *table[E]) Kind() string { return t.kind }

// Get implements types.Table.
func (t *table[E]) Get(ctx context.Context, id int64) (any, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}
	found, err := t.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e, ok := found.Get()
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", t.kind, id, types.ErrNotFound)
	}
	return e, nil
}

// Set implements types.Table. Columns missing from values are stored as
// NULL (or the zero value for NOT NULL columns).
func (t *table[E]) Set(ctx context.Context, id int64, values map[string]string) (any, error) {
	if id < 0 {
		return nil, types.ErrInvalidID
	}
	e := new(E)
	if id > 0 {
		if err := t.repo.schema.AssignID(e, id); err != nil {
			return nil, err
		}
	}
	if err := t.assign(e, values); err != nil {
		return nil, err
	}
	saved, err := t.repo.Save(ctx, e)
	if err != nil {
		return nil, err
	}
	newID, _ := t.repo.schema.ID(saved).Get()
	return t.Get(ctx, newID)
}

// Patch implements types.Table. Only the columns named in values change;
// an empty value or "null" clears a column.
func (t *table[E]) Patch(ctx context.Context, id int64, values map[string]string) (any, error) {
	got, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e := got.(*E)
	if err := t.assign(e, values); err != nil {
		return nil, err
	}
	if _, err := t.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return t.Get(ctx, id)
}

// Delete implements types.Table.
func (t *table[E]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	return t.repo.DeleteByID(ctx, id)
}

// Fetch implements types.Table. Association filters run on the joined
// select, so fetched entities have their associations resolved.
func (t *table[E]) Fetch(ctx context.Context, filter types.Filter) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		cond, err := t.condition(filter)
		if err != nil {
			yield(nil, err)
			return
		}
		for e, err := range t.repo.Query(ctx, filter.Page, cond) {
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

func (t *table[E]) condition(filter types.Filter) (query.Condition, error) {
	if filter.Association == "" {
		if filter.Orphans || filter.AssociationID != 0 {
			return nil, fmt.Errorf("%w: association id or orphans without an association", types.ErrInvalidFilter)
		}
		return nil, nil
	}
	a, ok := t.repo.schema.Association(filter.Association)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no association %q", types.ErrUnknownAssociation, t.kind, filter.Association)
	}
	column := t.repo.schema.Owner().Column(a.Column)
	if filter.Orphans {
		if filter.AssociationID != 0 {
			return nil, fmt.Errorf("%w: orphans with an association id", types.ErrInvalidFilter)
		}
		return query.IsNull(column), nil
	}
	if filter.AssociationID <= 0 {
		return nil, fmt.Errorf("%w: %s=%d", types.ErrInvalidID, filter.Association, filter.AssociationID)
	}
	return query.Eq(column, filter.AssociationID), nil
}

// assign applies values in column order so that errors are deterministic.
func (t *table[E]) assign(e *E, values map[string]string) error {
	columns := lo.Keys(values)
	slices.Sort(columns)
	for _, c := range columns {
		if err := t.repo.schema.Assign(e, c, values[c]); err != nil {
			return err
		}
	}
	return nil
}
