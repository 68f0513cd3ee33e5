// Package ledger provides the public API for opening a ledger store: it
// selects the storage backend named by the config and wires one repository
// per entity on it.
//
// Example:
//
//	store, err := ledger.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".ledger-db",
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	for d, err := range store.ResourceData.FindAllWhereRegisterUserIsNull(ctx) {
//	    ...
//	}
package ledger

import (
	"github.com/mesh-intelligence/ledger/internal/postgres"
	"github.com/mesh-intelligence/ledger/internal/repository"
	"github.com/mesh-intelligence/ledger/internal/sqlite"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Store holds an attached backend and the repositories running on it.
type Store struct {
	backend types.Backend
	tables  map[string]types.Table

	Users        *repository.UserRepository
	Clients      *repository.ClientRepository
	Resources    *repository.ResourceRepository
	ResourceData *repository.ResourceDataRepository
	ResourceGot  *repository.ResourceGotRepository
	UserProfiles *repository.UserProfileRepository
}

// NewBackend returns a detached backend for the given backend name.
func NewBackend(name string) (types.Backend, error) {
	switch name {
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendPostgres:
		return postgres.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open attaches the backend described by config and returns the store.
// Call Close to release the connection pool.
func Open(config types.Config) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	backend, err := NewBackend(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := backend.Attach(config); err != nil {
		return nil, err
	}
	exec, err := backend.Executor()
	if err != nil {
		backend.Detach()
		return nil, err
	}

	s := &Store{
		backend:      backend,
		Users:        repository.NewUserRepository(exec),
		Clients:      repository.NewClientRepository(exec),
		Resources:    repository.NewResourceRepository(exec),
		ResourceData: repository.NewResourceDataRepository(exec),
		ResourceGot:  repository.NewResourceGotRepository(exec),
		UserProfiles: repository.NewUserProfileRepository(exec),
	}
	s.tables = map[string]types.Table{
		types.KindUsers:        repository.NewTable(types.KindUsers, s.Users.Repository),
		types.KindClients:      repository.NewTable(types.KindClients, s.Clients.Repository),
		types.KindResources:    repository.NewTable(types.KindResources, s.Resources.Repository),
		types.KindResourceData: repository.NewTable(types.KindResourceData, s.ResourceData.Repository),
		types.KindResourceGot:  repository.NewTable(types.KindResourceGot, s.ResourceGot.Repository),
		types.KindUserProfiles: repository.NewTable(types.KindUserProfiles, s.UserProfiles.Repository),
	}
	return s, nil
}

// GetTable returns the untyped table for an entity kind.
// Returns ErrTableNotFound if the kind is not recognized.
func (s *Store) GetTable(kind string) (types.Table, error) {
	t, ok := s.tables[kind]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Close detaches the backend. Repositories of a closed store fail with the
// driver's closed-database error.
func (s *Store) Close() error {
	return s.backend.Detach()
}
