package types

import "github.com/goccy/go-json"

// UserProfile links a user to a resource bundle. It has no scalar fields.
type UserProfile struct {
	Identity
	User     Ref[User]
	Resource Ref[ResourceData]
}

// Equal reports whether p and other denote the same persisted profile.
func (p *UserProfile) Equal(other *UserProfile) bool {
	if p == other {
		return true
	}
	return p != nil && other != nil && p.SameAs(other.Identity)
}

// MarshalJSON writes the profile with its associations.
func (p UserProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       *int64            `json:"id"`
		User     Ref[User]         `json:"user"`
		Resource Ref[ResourceData] `json:"resource"`
	}{p.idPtr(), p.User, p.Resource})
}
