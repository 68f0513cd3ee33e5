package repository

import (
	"github.com/mesh-intelligence/ledger/internal/convert"
	"github.com/mesh-intelligence/ledger/internal/mapping"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Association roles. A role is both the association name and the table
// alias and column prefix of the joined relation.
const (
	RoleUser         = "user"
	RoleCompany      = "company"
	RoleClient       = "client"
	RoleRegisterUser = "registerUser"
	RoleResource     = "resource"
)

var UserSchema = mapping.New(types.TableUser,
	func(u *types.User) *types.Identity { return &u.Identity },
	mapping.Required("login", convert.KindText, func(u *types.User) *string { return &u.Login }),
	mapping.Text("first_name", func(u *types.User) **string { return &u.FirstName }),
	mapping.Text("last_name", func(u *types.User) **string { return &u.LastName }),
	mapping.Text("email", func(u *types.User) **string { return &u.Email }),
	mapping.Bool("activated", func(u *types.User) *bool { return &u.Activated }),
)

var ResourceDataSchema = mapping.New(types.TableResourceData,
	func(d *types.ResourceData) *types.Identity { return &d.Identity },
	mapping.Float("gold", func(d *types.ResourceData) **float64 { return &d.Gold }),
	mapping.Float("wood", func(d *types.ResourceData) **float64 { return &d.Wood }),
	mapping.Float("fer", func(d *types.ResourceData) **float64 { return &d.Fer }),
).With(
	mapping.Assoc(RoleRegisterUser, "register_user_id", UserSchema,
		func(d *types.ResourceData) *types.Ref[types.User] { return &d.RegisterUser }),
)

var ResourceGotSchema = mapping.New(types.TableResourceGot,
	func(g *types.ResourceGot) *types.Identity { return &g.Identity },
	mapping.Float("gold", func(g *types.ResourceGot) **float64 { return &g.Gold }),
	mapping.Float("wood", func(g *types.ResourceGot) **float64 { return &g.Wood }),
	mapping.Float("fer", func(g *types.ResourceGot) **float64 { return &g.Fer }),
).With(
	mapping.Assoc(RoleRegisterUser, "register_user_id", UserSchema,
		func(g *types.ResourceGot) *types.Ref[types.User] { return &g.RegisterUser }),
)

var ClientSchema = mapping.New(types.TableClient,
	func(c *types.Client) *types.Identity { return &c.Identity },
).With(
	mapping.Assoc(RoleUser, "user_id", UserSchema,
		func(c *types.Client) *types.Ref[types.User] { return &c.User }),
	mapping.Assoc(RoleCompany, "company_id", ResourceDataSchema,
		func(c *types.Client) *types.Ref[types.ResourceData] { return &c.Company }),
)

var ResourceSchema = mapping.New(types.TableResource,
	func(r *types.Resource) *types.Identity { return &r.Identity },
	mapping.Float("gold", func(r *types.Resource) **float64 { return &r.Gold }),
	mapping.Float("wood", func(r *types.Resource) **float64 { return &r.Wood }),
	mapping.Float("fer", func(r *types.Resource) **float64 { return &r.Fer }),
).With(
	mapping.Assoc(RoleClient, "client_id", ClientSchema,
		func(r *types.Resource) *types.Ref[types.Client] { return &r.Client }),
)

var UserProfileSchema = mapping.New(types.TableUserProfile,
	func(p *types.UserProfile) *types.Identity { return &p.Identity },
).With(
	mapping.Assoc(RoleUser, "user_id", UserSchema,
		func(p *types.UserProfile) *types.Ref[types.User] { return &p.User }),
	mapping.Assoc(RoleResource, "resource_id", ResourceDataSchema,
		func(p *types.UserProfile) *types.Ref[types.ResourceData] { return &p.Resource }),
)
