package types

import (
	"context"
	"errors"
	"iter"
)

// Table provides uniform, untyped CRUD operations for a single entity kind.
// Get, Set, Patch and Fetch return any; callers type-assert to the concrete
// entity pointer (for example *ResourceData). Values passed to Set and Patch
// are keyed by column name and parsed with the column's declared kind.
type Table interface {
	// Kind returns the entity kind name (one of the Kind constants).
	Kind() string

	// Get retrieves the entity with the given ID through the joined path,
	// so associations are resolved. Returns ErrNotFound if no row exists.
	Get(ctx context.Context, id int64) (any, error)

	// Set creates an entity when id is zero, otherwise replaces the stored
	// row. Replacing a missing row returns ErrNotFound.
	Set(ctx context.Context, id int64, values map[string]string) (any, error)

	// Patch overwrites only the scalar fields present in values.
	// Returns ErrNotFound if no row exists.
	Patch(ctx context.Context, id int64, values map[string]string) (any, error)

	// Delete removes the entity with the given ID. Deleting a missing row
	// is not an error.
	Delete(ctx context.Context, id int64) error

	// Fetch streams the entities matching the filter in row order.
	Fetch(ctx context.Context, filter Filter) iter.Seq2[any, error]
}

// Filter selects the rows returned by Table.Fetch. A zero Filter matches
// every row. When Association is set, either rows whose foreign key equals
// AssociationID are returned, or, with Orphans, rows whose foreign key is NULL.
type Filter struct {
	Page          *Pageable
	Association   string
	AssociationID int64
	Orphans       bool
}

// Repository operation errors.
var (
	ErrNotFound           = errors.New("entity not found")
	ErrConflict           = errors.New("constraint violation")
	ErrInvalidID          = errors.New("invalid entity ID")
	ErrIDAssigned         = errors.New("entity ID already assigned")
	ErrInvalidData        = errors.New("invalid entity data")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrUnknownAssociation = errors.New("unknown association")
	ErrInvalidSort        = errors.New("invalid sort order")
	ErrInvalidFilter      = errors.New("invalid filter")
)
