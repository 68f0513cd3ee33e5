package types

import (
	"github.com/goccy/go-json"
	"github.com/samber/mo"
)

// Ref is a nullable association to an entity of type T. It is in exactly one
// of three states: absent, unresolved (only the foreign key is known) or
// resolved (the object is loaded and the key is the object's id). Keeping
// the key and the object in one value means they cannot disagree.
type Ref[T any] struct {
	key mo.Option[int64]
	obj *T
}

// KeyRef returns an unresolved reference to the row with the given id.
func KeyRef[T any](id int64) Ref[T] {
	return Ref[T]{key: mo.Some(id)}
}

// RefTo returns a resolved reference to obj, or an absent one if obj is nil.
func RefTo[T any](obj *T) Ref[T] {
	return Ref[T]{obj: obj}
}

// ID returns the foreign key. For a resolved reference this is the id of
// the referenced object, which may itself still be transient.
func (r Ref[T]) ID() (int64, bool) {
	if r.obj != nil {
		if e, ok := any(r.obj).(Identified); ok {
			return e.ID()
		}
		return 0, false
	}
	return r.key.Get()
}

// Key returns the foreign key as an option.
func (r Ref[T]) Key() mo.Option[int64] {
	if id, ok := r.ID(); ok {
		return mo.Some(id)
	}
	return mo.None[int64]()
}

// Get returns the referenced object if the reference is resolved.
func (r Ref[T]) Get() (*T, bool) {
	return r.obj, r.obj != nil
}

// IsResolved reports whether the referenced object is loaded.
func (r Ref[T]) IsResolved() bool {
	return r.obj != nil
}

// IsAbsent reports whether the reference points at nothing.
func (r Ref[T]) IsAbsent() bool {
	return r.obj == nil && r.key.IsAbsent()
}

// Set resolves the reference to obj. A nil obj clears the reference.
func (r *Ref[T]) Set(obj *T) {
	*r = RefTo(obj)
}

// SetKey replaces the reference with an unresolved one carrying key. Any
// previously resolved object is dropped.
func (r *Ref[T]) SetKey(key mo.Option[int64]) {
	*r = Ref[T]{key: key}
}

// Clear makes the reference absent.
func (r *Ref[T]) Clear() {
	*r = Ref[T]{}
}

// MarshalJSON writes the resolved object, {"id":K} for an unresolved
// reference, or null.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.obj != nil {
		return json.Marshal(r.obj)
	}
	if id, ok := r.key.Get(); ok {
		return json.Marshal(struct {
			ID int64 `json:"id"`
		}{id})
	}
	return []byte("null"), nil
}
