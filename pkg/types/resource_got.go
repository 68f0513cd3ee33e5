package types

import "github.com/goccy/go-json"

// ResourceGot records amounts a user has received. It has the same shape as
// ResourceData but lives in its own table.
type ResourceGot struct {
	Identity
	Gold         *float64
	Wood         *float64
	Fer          *float64
	RegisterUser Ref[User]
}

// Equal reports whether g and other denote the same persisted entry.
func (g *ResourceGot) Equal(other *ResourceGot) bool {
	if g == other {
		return true
	}
	return g != nil && other != nil && g.SameAs(other.Identity)
}

// MarshalJSON writes the entry with its registering user.
func (g ResourceGot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           *int64    `json:"id"`
		Gold         *float64  `json:"gold"`
		Wood         *float64  `json:"wood"`
		Fer          *float64  `json:"fer"`
		RegisterUser Ref[User] `json:"registerUser"`
	}{g.idPtr(), g.Gold, g.Wood, g.Fer, g.RegisterUser})
}
