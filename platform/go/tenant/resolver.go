package tenant

import (
	"context"
	"errors"

	"github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// Resolution errors.
var (
	// ErrTenantNotFound: the hinted tenant does not exist.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantRequired: the request needs a tenant hint but carried none.
	ErrTenantRequired = errors.New("tenant hint required")
	// ErrForbidden: the principal's role cannot reach any tenant scope here.
	ErrForbidden = errors.New("forbidden")
)

// TenantLookup is the subset of the directory the resolver needs.
type TenantLookup interface {
	GetTenant(ctx context.Context, id string) (persistence.TenantRecord, error)
}

// Resolver reconciles a principal's role with a route-supplied tenant hint
// into a single authoritative Scope. Route hints are untrusted input: for
// business admins they are ignored outright, so a tampered query string can
// never redirect a request into another tenant's partition.
type Resolver struct {
	tenants TenantLookup
}

// NewResolver constructs a Resolver over the tenant registry.
func NewResolver(tenants TenantLookup) *Resolver {
	if tenants == nil {
		panic("tenant lookup is required")
	}
	return &Resolver{tenants: tenants}
}

// Resolve determines the authoritative tenant for a request.
//
// Super-admins scope to the hinted tenant, which must exist. Business admins
// always scope to their own tenant regardless of the hint. Anonymous callers
// scope to the hint verbatim with booking-only access; the partition is
// auto-provisioned on first write, so no existence check applies.
func (r *Resolver) Resolve(ctx context.Context, principal *auth.Principal, hint string) (Scope, error) {
	if principal == nil {
		slug, err := persistence.NormalizeSlug(hint)
		if err != nil {
			return Scope{}, ErrTenantRequired
		}
		return Scope{TenantID: slug, Access: AccessBookOnly}, nil
	}

	switch principal.Role {
	case persistence.RoleSuperAdmin:
		if hint == "" {
			return Scope{}, ErrTenantRequired
		}
		if _, err := r.tenants.GetTenant(ctx, hint); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return Scope{}, ErrTenantNotFound
			}
			return Scope{}, err
		}
		return Scope{TenantID: hint, Access: AccessFull}, nil

	case persistence.RoleBusinessAdmin:
		if principal.TenantID == nil || *principal.TenantID == "" {
			return Scope{}, ErrForbidden
		}
		return Scope{TenantID: *principal.TenantID, Access: AccessFull}, nil

	default:
		return Scope{}, ErrForbidden
	}
}
