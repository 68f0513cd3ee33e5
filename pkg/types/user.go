package types

import "github.com/goccy/go-json"

// User is an account of the jhi_user table. Only the columns referenced by
// the ledger entities are modelled.
type User struct {
	Identity
	Login     string
	FirstName *string
	LastName  *string
	Email     *string
	Activated bool
}

// Equal reports whether u and other denote the same persisted user.
func (u *User) Equal(other *User) bool {
	if u == other {
		return true
	}
	return u != nil && other != nil && u.SameAs(other.Identity)
}

// MarshalJSON writes the user with camelCase keys.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        *int64  `json:"id"`
		Login     string  `json:"login"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email"`
		Activated bool    `json:"activated"`
	}{u.idPtr(), u.Login, u.FirstName, u.LastName, u.Email, u.Activated})
}
