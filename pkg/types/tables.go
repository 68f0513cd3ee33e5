package types

// Entity kind names accepted by Store.GetTable and the CLI.
const (
	KindUsers        = "users"
	KindClients      = "clients"
	KindResources    = "resources"
	KindResourceData = "resource-data"
	KindResourceGot  = "resource-got"
	KindUserProfiles = "user-profiles"
)

// StandardKinds lists all entity kinds for enumeration.
var StandardKinds = []string{
	KindUsers,
	KindClients,
	KindResources,
	KindResourceData,
	KindResourceGot,
	KindUserProfiles,
}

// Table names of the persisted entity kinds.
const (
	TableUser         = "jhi_user"
	TableClient       = "client"
	TableResource     = "resource"
	TableResourceData = "resource_data"
	TableResourceGot  = "resource_got"
	TableUserProfile  = "user_profile"
)
