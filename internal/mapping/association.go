package mapping

import (
	"fmt"

	"github.com/samber/mo"

	"github.com/mesh-intelligence/ledger/internal/convert"
	"github.com/mesh-intelligence/ledger/internal/query"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Association describes a nullable many-to-one relation of E: the owning
// row stores the target's id in Column, and a joined query reads the
// target under the Role alias.
type Association[E any] struct {
	Role   string
	Column string
	Target string

	key     func(e *E) mo.Option[int64]
	setKey  func(e *E, key mo.Option[int64])
	columns func(t query.Table, prefix string) []query.Column
	resolve func(e *E, row types.Row, prefix string) error
}

// Assoc binds role to the Ref field returned by ref. The target rows are
// read with the target schema; the target's own associations stay
// unresolved.
func Assoc[E, T any](role, column string, target *Schema[T], ref func(*E) *types.Ref[T]) Association[E] {
	return Association[E]{
		Role:   role,
		Column: column,
		Target: target.Table,
		key: func(e *E) mo.Option[int64] {
			return ref(e).Key()
		},
		setKey: func(e *E, key mo.Option[int64]) {
			ref(e).SetKey(key)
		},
		columns: target.Columns,
		resolve: func(e *E, row types.Row, prefix string) error {
			id, err := convert.Int64(row, Alias(prefix, IDColumn))
			if err != nil {
				return fmt.Errorf("%s: %w", role, err)
			}
			// No matching target row: keep the key read from the owner.
			if id.IsAbsent() {
				return nil
			}
			obj, err := target.Map(row, prefix)
			if err != nil {
				return fmt.Errorf("%s: %w", role, err)
			}
			ref(e).Set(obj)
			return nil
		},
	}
}

// Key returns the foreign key e holds for this association.
func (a Association[E]) Key(e *E) mo.Option[int64] {
	return a.key(e)
}
