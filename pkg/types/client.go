package types

import "github.com/goccy/go-json"

// Client ties a user account to the resource bundle of its company.
type Client struct {
	Identity
	User    Ref[User]
	Company Ref[ResourceData]
}

// Equal reports whether c and other denote the same persisted client.
func (c *Client) Equal(other *Client) bool {
	if c == other {
		return true
	}
	return c != nil && other != nil && c.SameAs(other.Identity)
}

// MarshalJSON writes the client with its associations.
func (c Client) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      *int64            `json:"id"`
		User    Ref[User]         `json:"user"`
		Company Ref[ResourceData] `json:"company"`
	}{c.idPtr(), c.User, c.Company})
}
