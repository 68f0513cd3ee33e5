package repository

import (
	"context"
	"iter"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// UserRepository persists accounts.
type UserRepository struct {
	*Repository[types.User]
}

// NewUserRepository returns the user repository on exec.
func NewUserRepository(exec types.Executor) *UserRepository {
	return &UserRepository{New(exec, UserSchema)}
}

// ResourceDataRepository persists ledger entries and finds them by the
// registering user.
type ResourceDataRepository struct {
	*Repository[types.ResourceData]
}

func NewResourceDataRepository(exec types.Executor) *ResourceDataRepository {
	return &ResourceDataRepository{New(exec, ResourceDataSchema)}
}

// FindByRegisterUser returns the entries registered by user id.
func (r *ResourceDataRepository) FindByRegisterUser(ctx context.Context, id int64) iter.Seq2[*types.ResourceData, error] {
	return r.FindByAssociation(ctx, RoleRegisterUser, id)
}

// FindAllWhereRegisterUserIsNull returns the entries without a registering user.
func (r *ResourceDataRepository) FindAllWhereRegisterUserIsNull(ctx context.Context) iter.Seq2[*types.ResourceData, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleRegisterUser)
}

type ResourceGotRepository struct {
	*Repository[types.ResourceGot]
}

func NewResourceGotRepository(exec types.Executor) *ResourceGotRepository {
	return &ResourceGotRepository{New(exec, ResourceGotSchema)}
}

func (r *ResourceGotRepository) FindByRegisterUser(ctx context.Context, id int64) iter.Seq2[*types.ResourceGot, error] {
	return r.FindByAssociation(ctx, RoleRegisterUser, id)
}

func (r *ResourceGotRepository) FindAllWhereRegisterUserIsNull(ctx context.Context) iter.Seq2[*types.ResourceGot, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleRegisterUser)
}

// ResourceRepository persists resource bundles owned by clients.
type ResourceRepository struct {
	*Repository[types.Resource]
}

func NewResourceRepository(exec types.Executor) *ResourceRepository {
	return &ResourceRepository{New(exec, ResourceSchema)}
}

func (r *ResourceRepository) FindByClient(ctx context.Context, id int64) iter.Seq2[*types.Resource, error] {
	return r.FindByAssociation(ctx, RoleClient, id)
}

func (r *ResourceRepository) FindAllWhereClientIsNull(ctx context.Context) iter.Seq2[*types.Resource, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleClient)
}

// ClientRepository persists clients. Joined reads resolve both the user and
// the company entry.
type ClientRepository struct {
	*Repository[types.Client]
}

func NewClientRepository(exec types.Executor) *ClientRepository {
	return &ClientRepository{New(exec, ClientSchema)}
}

func (r *ClientRepository) FindByUser(ctx context.Context, id int64) iter.Seq2[*types.Client, error] {
	return r.FindByAssociation(ctx, RoleUser, id)
}

func (r *ClientRepository) FindAllWhereUserIsNull(ctx context.Context) iter.Seq2[*types.Client, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleUser)
}

func (r *ClientRepository) FindByCompany(ctx context.Context, id int64) iter.Seq2[*types.Client, error] {
	return r.FindByAssociation(ctx, RoleCompany, id)
}

func (r *ClientRepository) FindAllWhereCompanyIsNull(ctx context.Context) iter.Seq2[*types.Client, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleCompany)
}

type UserProfileRepository struct {
	*Repository[types.UserProfile]
}

func NewUserProfileRepository(exec types.Executor) *UserProfileRepository {
	return &UserProfileRepository{New(exec, UserProfileSchema)}
}

func (r *UserProfileRepository) FindByUser(ctx context.Context, id int64) iter.Seq2[*types.UserProfile, error] {
	return r.FindByAssociation(ctx, RoleUser, id)
}

func (r *UserProfileRepository) FindAllWhereUserIsNull(ctx context.Context) iter.Seq2[*types.UserProfile, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleUser)
}

func (r *UserProfileRepository) FindByResource(ctx context.Context, id int64) iter.Seq2[*types.UserProfile, error] {
	return r.FindByAssociation(ctx, RoleResource, id)
}

func (r *UserProfileRepository) FindAllWhereResourceIsNull(ctx context.Context) iter.Seq2[*types.UserProfile, error] {
	return r.FindAllWhereAssociationIsNull(ctx, RoleResource)
}
