package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

type mockTenantLookup struct {
	getTenantFn func(ctx context.Context, id string) (persistence.TenantRecord, error)
}

func (m *mockTenantLookup) GetTenant(ctx context.Context, id string) (persistence.TenantRecord, error) {
	if m.getTenantFn == nil {
		panic("getTenantFn not configured")
	}
	return m.getTenantFn(ctx, id)
}

func strPtr(s string) *string { return &s }

func TestResolveAnonymous(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&mockTenantLookup{})

	scope, err := resolver.Resolve(context.Background(), nil, "demo")
	require.NoError(t, err)
	require.Equal(t, "demo", scope.TenantID)
	require.Equal(t, AccessBookOnly, scope.Access)
}

func TestResolveAnonymousWithoutHint(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&mockTenantLookup{})

	_, err := resolver.Resolve(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrTenantRequired)

	_, err = resolver.Resolve(context.Background(), nil, "Not A Slug!")
	require.ErrorIs(t, err, ErrTenantRequired)
}

func TestResolveSuperAdminFollowsHint(t *testing.T) {
	t.Parallel()

	lookup := &mockTenantLookup{
		getTenantFn: func(ctx context.Context, id string) (persistence.TenantRecord, error) {
			require.Equal(t, "demo", id)
			return persistence.TenantRecord{ID: "demo", Status: persistence.TenantStatusActive}, nil
		},
	}
	resolver := NewResolver(lookup)
	principal := &auth.Principal{ID: 1, Role: persistence.RoleSuperAdmin}

	scope, err := resolver.Resolve(context.Background(), principal, "demo")
	require.NoError(t, err)
	require.Equal(t, "demo", scope.TenantID)
	require.Equal(t, AccessFull, scope.Access)
}

func TestResolveSuperAdminRequiresExistingHint(t *testing.T) {
	t.Parallel()

	lookup := &mockTenantLookup{
		getTenantFn: func(ctx context.Context, id string) (persistence.TenantRecord, error) {
			return persistence.TenantRecord{}, persistence.ErrNotFound
		},
	}
	resolver := NewResolver(lookup)
	principal := &auth.Principal{ID: 1, Role: persistence.RoleSuperAdmin}

	_, err := resolver.Resolve(context.Background(), principal, "")
	require.ErrorIs(t, err, ErrTenantRequired)

	_, err = resolver.Resolve(context.Background(), principal, "ghost")
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestResolveBusinessAdminIgnoresHint(t *testing.T) {
	t.Parallel()

	// The lookup must never be consulted: the principal's own tenant wins.
	resolver := NewResolver(&mockTenantLookup{})
	principal := &auth.Principal{
		ID:       2,
		Role:     persistence.RoleBusinessAdmin,
		TenantID: strPtr("demo"),
	}

	for _, hint := range []string{"", "demo", "other-tenant"} {
		scope, err := resolver.Resolve(context.Background(), principal, hint)
		require.NoError(t, err)
		require.Equal(t, "demo", scope.TenantID)
		require.Equal(t, AccessFull, scope.Access)
	}
}

func TestResolveBusinessAdminWithoutTenant(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&mockTenantLookup{})
	principal := &auth.Principal{ID: 3, Role: persistence.RoleBusinessAdmin}

	_, err := resolver.Resolve(context.Background(), principal, "demo")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestResolveUnknownRole(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&mockTenantLookup{})
	principal := &auth.Principal{ID: 4, Role: "auditor"}

	_, err := resolver.Resolve(context.Background(), principal, "demo")
	require.ErrorIs(t, err, ErrForbidden)
}
