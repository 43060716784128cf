package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func demoBusiness() (TenantRecord, PrincipalRecord) {
	tenant := TenantRecord{
		ID:     "demo",
		Name:   "Demo Business",
		Domain: "demo.example.com",
		Status: TenantStatusActive,
	}
	admin := PrincipalRecord{
		Username:     "admin",
		PasswordHash: "$2a$10$fakehash",
		Role:         RoleBusinessAdmin,
		TenantID:     strPtr("demo"),
		TenantName:   "Demo Business",
	}
	return tenant, admin
}

func TestMemoryDirectoryCreateBusiness(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()
	tenant, admin := demoBusiness()

	storedTenant, storedAdmin, err := dir.CreateBusiness(context.Background(), tenant, admin)
	require.NoError(t, err)
	require.Equal(t, "demo", storedTenant.ID)
	require.False(t, storedTenant.CreatedAt.IsZero())
	require.Equal(t, int64(1), storedAdmin.ID)

	found, err := dir.FindPrincipalByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.Equal(t, storedAdmin.ID, found.ID)
	require.NotNil(t, found.TenantID)
	require.Equal(t, "demo", *found.TenantID)

	got, err := dir.GetTenant(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, "Demo Business", got.Name)
}

func TestMemoryDirectoryCreateBusinessDuplicateTenant(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()
	tenant, admin := demoBusiness()

	_, _, err := dir.CreateBusiness(context.Background(), tenant, admin)
	require.NoError(t, err)

	other := admin
	other.Username = "someone-else"
	_, _, err = dir.CreateBusiness(context.Background(), tenant, other)
	require.ErrorIs(t, err, ErrDuplicateTenantID)

	// The failed attempt wrote nothing.
	_, err = dir.FindPrincipalByUsername(context.Background(), "someone-else")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDirectoryCreateBusinessDuplicateUsername(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()
	tenant, admin := demoBusiness()

	_, _, err := dir.CreateBusiness(context.Background(), tenant, admin)
	require.NoError(t, err)

	second := tenant
	second.ID = "other"
	colliding := admin
	colliding.TenantID = strPtr("other")
	_, _, err = dir.CreateBusiness(context.Background(), second, colliding)
	require.ErrorIs(t, err, ErrDuplicateUsername)

	// No half-written tenant either.
	_, err = dir.GetTenant(context.Background(), "other")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDirectoryDeleteBusinessCascadesPrincipals(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()

	super, err := dir.SeedPrincipal(context.Background(), PrincipalRecord{
		Username:     "superadmin",
		PasswordHash: "$2a$10$fakehash",
		Role:         RoleSuperAdmin,
		TenantName:   "Super Admin",
	})
	require.NoError(t, err)

	tenant, admin := demoBusiness()
	_, storedAdmin, err := dir.CreateBusiness(context.Background(), tenant, admin)
	require.NoError(t, err)

	deleted, err := dir.DeleteBusiness(context.Background(), "demo")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = dir.GetTenant(context.Background(), "demo")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = dir.FindPrincipalByUsername(context.Background(), "admin")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = dir.GetPrincipal(context.Background(), storedAdmin.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Principals without a tenant binding survive the cascade.
	kept, err := dir.GetPrincipal(context.Background(), super.ID)
	require.NoError(t, err)
	require.Equal(t, "superadmin", kept.Username)
}

func TestMemoryDirectoryDeleteBusinessUnknown(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()
	deleted, err := dir.DeleteBusiness(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestMemoryDirectoryListTenantsInsertionOrder(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()
	for _, id := range []string{"alpha", "bravo", "charlie"} {
		tenant := TenantRecord{ID: id, Name: id, Status: TenantStatusActive}
		admin := PrincipalRecord{
			Username:     id + "-admin",
			PasswordHash: "$2a$10$fakehash",
			Role:         RoleBusinessAdmin,
			TenantID:     strPtr(id),
		}
		_, _, err := dir.CreateBusiness(context.Background(), tenant, admin)
		require.NoError(t, err)
	}

	deleted, err := dir.DeleteBusiness(context.Background(), "bravo")
	require.NoError(t, err)
	require.True(t, deleted)

	tenants, err := dir.ListTenants(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	require.Equal(t, "alpha", tenants[0].ID)
	require.Equal(t, "charlie", tenants[1].ID)

	// Index map survives the reshuffle.
	got, err := dir.GetTenant(context.Background(), "charlie")
	require.NoError(t, err)
	require.Equal(t, "charlie", got.ID)
}

func TestMemoryDirectorySeedPrincipalDuplicate(t *testing.T) {
	t.Parallel()

	dir := NewMemoryDirectory()
	_, err := dir.SeedPrincipal(context.Background(), PrincipalRecord{Username: "superadmin", Role: RoleSuperAdmin})
	require.NoError(t, err)

	_, err = dir.SeedPrincipal(context.Background(), PrincipalRecord{Username: "superadmin", Role: RoleSuperAdmin})
	require.ErrorIs(t, err, ErrDuplicateUsername)
}
