package types

import "github.com/samber/mo"

// Identified is implemented by every entity through its embedded Identity.
type Identified interface {
	ID() (int64, bool)
}

// Identity holds the surrogate primary key of an entity. The key is absent
// while the entity is transient and is assigned once, by the store on first
// insert or by the row mapper on load.
type Identity struct {
	id mo.Option[int64]
}

// IdentityOf returns an Identity with the given key assigned.
func IdentityOf(id int64) Identity {
	return Identity{id: mo.Some(id)}
}

// ID returns the key and whether it has been assigned.
func (i Identity) ID() (int64, bool) {
	return i.id.Get()
}

// IsTransient reports whether no key has been assigned yet.
func (i Identity) IsTransient() bool {
	return i.id.IsAbsent()
}

// AssignID sets the key. Assigning the current key again is a no-op;
// assigning a different key to a persisted entity returns ErrIDAssigned.
func (i *Identity) AssignID(id int64) error {
	if cur, ok := i.id.Get(); ok && cur != id {
		return ErrIDAssigned
	}
	i.id = mo.Some(id)
	return nil
}

// SameAs reports whether both identities carry the same assigned key.
// Transient identities are never the same as anything.
func (i Identity) SameAs(other Identity) bool {
	a, ok := i.id.Get()
	if !ok {
		return false
	}
	b, ok := other.id.Get()
	return ok && a == b
}

// idPtr returns the key as a pointer for JSON output; nil when transient.
func (i Identity) idPtr() *int64 {
	if id, ok := i.id.Get(); ok {
		return &id
	}
	return nil
}
