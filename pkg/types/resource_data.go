package types

import "github.com/goccy/go-json"

// ResourceData is a ledger entry of amounts registered by a user.
type ResourceData struct {
	Identity
	Gold         *float64
	Wood         *float64
	Fer          *float64
	RegisterUser Ref[User]
}

// Equal reports whether d and other denote the same persisted entry.
func (d *ResourceData) Equal(other *ResourceData) bool {
	if d == other {
		return true
	}
	return d != nil && other != nil && d.SameAs(other.Identity)
}

// MarshalJSON writes the entry with its registering user.
func (d ResourceData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           *int64    `json:"id"`
		Gold         *float64  `json:"gold"`
		Wood         *float64  `json:"wood"`
		Fer          *float64  `json:"fer"`
		RegisterUser Ref[User] `json:"registerUser"`
	}{d.idPtr(), d.Gold, d.Wood, d.Fer, d.RegisterUser})
}
