package persistence

import (
	"context"
	"errors"
	"time"
)

// Errors surfaced by directory implementations. Service layers map these onto
// their own sentinel errors before they reach a handler.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateTenantID = errors.New("tenant id already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Principal roles. Usernames are global across tenants, so a role plus an
// optional tenant id is enough to scope every principal.
const (
	RoleSuperAdmin    = "super_admin"
	RoleBusinessAdmin = "business_admin"
)

// Tenant statuses. Only active is produced today; suspended is reserved.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

// PrincipalRecord is the stored shape of a login principal. PasswordHash is a
// bcrypt hash and must never leave the persistence/service boundary.
type PrincipalRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	TenantID     *string
	TenantName   string
	CreatedAt    time.Time
}

// TenantRecord is the stored shape of a tenant (business) registry entry.
// The ID is a caller-supplied slug validated via NormalizeSlug.
type TenantRecord struct {
	ID        string
	Name      string
	Domain    string
	Status    string
	CreatedAt time.Time
}

// Directory abstracts storage for principals and the tenant registry. The two
// live behind one interface because business creation and deletion must be
// atomic across both collections: a tenant is never observable without its
// admin principal, and deleting a tenant removes every principal bound to it.
type Directory interface {
	// FindPrincipalByUsername returns the principal with the exact username,
	// or ErrNotFound.
	FindPrincipalByUsername(ctx context.Context, username string) (PrincipalRecord, error)
	// GetPrincipal returns the principal with the given id, or ErrNotFound.
	GetPrincipal(ctx context.Context, id int64) (PrincipalRecord, error)
	// GetTenant returns the tenant with the given id, or ErrNotFound.
	GetTenant(ctx context.Context, id string) (TenantRecord, error)
	// ListTenants returns all tenants in insertion order.
	ListTenants(ctx context.Context) ([]TenantRecord, error)
	// CreateBusiness atomically stores a tenant and its admin principal.
	// Fails with ErrDuplicateTenantID or ErrDuplicateUsername without any
	// partial write. The principal id is assigned by the directory.
	CreateBusiness(ctx context.Context, t TenantRecord, admin PrincipalRecord) (TenantRecord, PrincipalRecord, error)
	// DeleteBusiness removes the tenant and cascades to every principal whose
	// TenantID matches. Returns false when the tenant does not exist.
	DeleteBusiness(ctx context.Context, id string) (bool, error)
}

// PrincipalSeeder inserts principals outside the business lifecycle. Only the
// seed CLI uses it, to provision super-admin accounts that belong to no tenant.
type PrincipalSeeder interface {
	SeedPrincipal(ctx context.Context, p PrincipalRecord) (PrincipalRecord, error)
}
