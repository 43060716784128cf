package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

type mockRepository struct {
	listFn   func(ctx context.Context, tenantID string) ([]Customer, error)
	createFn func(ctx context.Context, tenantID string, c Customer) (Customer, error)
	deleteFn func(ctx context.Context, tenantID string, id int64) (bool, error)
	purgeFn  func(ctx context.Context, tenantID string) error
}

func (m *mockRepository) List(ctx context.Context, tenantID string) ([]Customer, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx, tenantID)
}

func (m *mockRepository) Create(ctx context.Context, tenantID string, c Customer) (Customer, error) {
	if m.createFn == nil {
		panic("createFn not configured")
	}
	return m.createFn(ctx, tenantID, c)
}

func (m *mockRepository) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	if m.deleteFn == nil {
		panic("deleteFn not configured")
	}
	return m.deleteFn(ctx, tenantID, id)
}

func (m *mockRepository) Purge(ctx context.Context, tenantID string) error {
	if m.purgeFn == nil {
		panic("purgeFn not configured")
	}
	return m.purgeFn(ctx, tenantID)
}

func fullScope(tenantID string) tenant.Scope {
	return tenant.Scope{TenantID: tenantID, Access: tenant.AccessFull}
}

func bookOnlyScope(tenantID string) tenant.Scope {
	return tenant.Scope{TenantID: tenantID, Access: tenant.AccessBookOnly}
}

func TestListUsesScopeTenant(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		listFn: func(ctx context.Context, tenantID string) ([]Customer, error) {
			require.Equal(t, "demo", tenantID)
			return []Customer{{ID: 1, Name: "Jane", TenantID: "demo"}}, nil
		},
	}
	svc := New(repo)

	customers, err := svc.List(context.Background(), fullScope("demo"))
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "Jane", customers[0].Name)
}

func TestBookOnlyScopeForbidden(t *testing.T) {
	t.Parallel()

	// The repository must never be reached from a booking-only scope.
	svc := New(&mockRepository{})
	scope := bookOnlyScope("demo")

	_, err := svc.List(context.Background(), scope)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(context.Background(), scope, CreateInput{Name: "Jane"})
	require.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), scope, 1)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{})

	_, err := svc.Create(context.Background(), fullScope("demo"), CreateInput{Email: "not-an-email"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "name")
	require.Contains(t, validationErr.Fields, "email")
}

func TestCreateTrimsInput(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		createFn: func(ctx context.Context, tenantID string, c Customer) (Customer, error) {
			require.Equal(t, "demo", tenantID)
			require.Equal(t, "Jane Doe", c.Name)
			require.Equal(t, "jane@example.com", c.Email)
			require.Equal(t, "555-0100", c.Phone)
			require.Equal(t, "demo", c.TenantID)
			c.ID = 1
			return c, nil
		},
	}
	svc := New(repo)

	created, err := svc.Create(context.Background(), fullScope("demo"), CreateInput{
		Name:  "  Jane Doe ",
		Email: " jane@example.com ",
		Phone: " 555-0100 ",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
}

func TestDeleteMapsMissToNotFound(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		deleteFn: func(ctx context.Context, tenantID string, id int64) (bool, error) {
			require.Equal(t, "demo", tenantID)
			return id == 1, nil
		},
	}
	svc := New(repo)

	require.NoError(t, svc.Delete(context.Background(), fullScope("demo"), 1))
	require.ErrorIs(t, svc.Delete(context.Background(), fullScope("demo"), 99), ErrNotFound)
}
