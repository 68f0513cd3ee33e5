package mapping

import (
	"github.com/mesh-intelligence/ledger/internal/convert"
)

// Field binds one scalar column to a struct field of E.
type Field[E any] struct {
	Column string
	Kind   convert.Kind

	load  func(e *E, v any)
	value func(e *E) any
	merge func(dst, src *E)
}

// Optional binds a nullable column to a pointer field. v passed to the
// loader is the converter's result for kind, so T must match it (int64,
// float64, string or bool).
func Optional[E, T any](column string, kind convert.Kind, field func(*E) **T) Field[E] {
	return Field[E]{
		Column: column,
		Kind:   kind,
		load: func(e *E, v any) {
			if v == nil {
				*field(e) = nil
				return
			}
			t := v.(T)
			*field(e) = &t
		},
		value: func(e *E) any {
			if p := *field(e); p != nil {
				return *p
			}
			return nil
		},
		merge: func(dst, src *E) {
			if p := *field(src); p != nil {
				v := *p
				*field(dst) = &v
			}
		},
	}
}

// Required binds a NOT NULL column to a value field. NULL loads as the zero
// value; in a merge only non-zero values are copied.
func Required[E any, T comparable](column string, kind convert.Kind, field func(*E) *T) Field[E] {
	return Field[E]{
		Column: column,
		Kind:   kind,
		load: func(e *E, v any) {
			var zero T
			if v == nil {
				*field(e) = zero
				return
			}
			*field(e) = v.(T)
		},
		value: func(e *E) any {
			return *field(e)
		},
		merge: func(dst, src *E) {
			var zero T
			if v := *field(src); v != zero {
				*field(dst) = v
			}
		},
	}
}

// Float binds a nullable floating-point column.
func Float[E any](column string, field func(*E) **float64) Field[E] {
	return Optional[E, float64](column, convert.KindFloat, field)
}

// Text binds a nullable text column.
func Text[E any](column string, field func(*E) **string) Field[E] {
	return Optional[E, string](column, convert.KindText, field)
}

// Bool binds a NOT NULL boolean column.
func Bool[E any](column string, field func(*E) *bool) Field[E] {
	return Required[E, bool](column, convert.KindBool, field)
}
