package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

type mockPurger struct {
	purgeFn func(ctx context.Context, tenantID string) error
}

func (m *mockPurger) Purge(ctx context.Context, tenantID string) error {
	if m.purgeFn == nil {
		panic("purgeFn not configured")
	}
	return m.purgeFn(ctx, tenantID)
}

func validInput() CreateInput {
	return CreateInput{
		ID:            "demo",
		Name:          "Demo Business",
		Domain:        "demo.example.com",
		AdminUsername: "admin",
		AdminPassword: "business123",
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := New(persistence.NewMemoryDirectory())

	_, err := svc.Create(context.Background(), CreateInput{AdminPassword: "short"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "id")
	require.Contains(t, validationErr.Fields, "name")
	require.Contains(t, validationErr.Fields, "adminUsername")
	require.Contains(t, validationErr.Fields, "adminPassword")
}

func TestCreateSuccess(t *testing.T) {
	t.Parallel()

	dir := persistence.NewMemoryDirectory()
	svc := New(dir)

	result, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "demo", result.Business.ID)
	require.Equal(t, persistence.TenantStatusActive, result.Business.Status)
	require.False(t, result.Business.CreatedAt.IsZero())

	require.Equal(t, "admin", result.Admin.Username)
	require.Equal(t, persistence.RoleBusinessAdmin, result.Admin.Role)
	require.NotNil(t, result.Admin.TenantID)
	require.Equal(t, "demo", *result.Admin.TenantID)

	// The stored credential is a bcrypt hash of the plaintext, never the
	// plaintext itself.
	stored, err := dir.FindPrincipalByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NotEqual(t, "business123", stored.PasswordHash)
	require.True(t, platformauth.CheckPassword(stored.PasswordHash, "business123"))
}

func TestCreateNormalizesSlug(t *testing.T) {
	t.Parallel()

	svc := New(persistence.NewMemoryDirectory())

	input := validInput()
	input.ID = "  Demo "
	result, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "demo", result.Business.ID)
}

func TestCreateDuplicates(t *testing.T) {
	t.Parallel()

	svc := New(persistence.NewMemoryDirectory())

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	dupTenant := validInput()
	dupTenant.AdminUsername = "admin2"
	_, err = svc.Create(context.Background(), dupTenant)
	require.ErrorIs(t, err, ErrDuplicateTenantID)

	dupUsername := validInput()
	dupUsername.ID = "other"
	_, err = svc.Create(context.Background(), dupUsername)
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestGetAndList(t *testing.T) {
	t.Parallel()

	svc := New(persistence.NewMemoryDirectory())

	_, err := svc.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	business, err := svc.Get(context.Background(), "demo")
	require.NoError(t, err)
	require.Equal(t, "Demo Business", business.Name)

	businesses, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	require.Equal(t, "demo", businesses[0].ID)
}

func TestDeletePurgesPartitions(t *testing.T) {
	t.Parallel()

	dir := persistence.NewMemoryDirectory()

	purged := make(map[string]int)
	purger := &mockPurger{
		purgeFn: func(ctx context.Context, tenantID string) error {
			purged[tenantID]++
			return nil
		},
	}
	svc := New(dir, purger, purger)

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), "demo")
	require.NoError(t, err)
	require.True(t, deleted)
	require.Equal(t, 2, purged["demo"])

	_, err = dir.FindPrincipalByUsername(context.Background(), "admin")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestDeleteUnknownSkipsPurge(t *testing.T) {
	t.Parallel()

	called := false
	purger := &mockPurger{
		purgeFn: func(ctx context.Context, tenantID string) error {
			called = true
			return nil
		},
	}
	svc := New(persistence.NewMemoryDirectory(), purger)

	deleted, err := svc.Delete(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, deleted)
	require.False(t, called)
}
