package types

import "github.com/goccy/go-json"

// Resource is the gold, wood and fer stock held by a client.
type Resource struct {
	Identity
	Gold   *float64
	Wood   *float64
	Fer    *float64
	Client Ref[Client]
}

// Equal reports whether r and other denote the same persisted resource.
func (r *Resource) Equal(other *Resource) bool {
	if r == other {
		return true
	}
	return r != nil && other != nil && r.SameAs(other.Identity)
}

// MarshalJSON writes the resource with its client.
func (r Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     *int64      `json:"id"`
		Gold   *float64    `json:"gold"`
		Wood   *float64    `json:"wood"`
		Fer    *float64    `json:"fer"`
		Client Ref[Client] `json:"client"`
	}{r.idPtr(), r.Gold, r.Wood, r.Fer, r.Client})
}
