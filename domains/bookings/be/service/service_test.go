package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

type mockRepository struct {
	listFn   func(ctx context.Context, tenantID string) ([]Booking, error)
	createFn func(ctx context.Context, tenantID string, b Booking) (Booking, error)
	deleteFn func(ctx context.Context, tenantID string, id int64) (bool, error)
	purgeFn  func(ctx context.Context, tenantID string) error
}

func (m *mockRepository) List(ctx context.Context, tenantID string) ([]Booking, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx, tenantID)
}

func (m *mockRepository) Create(ctx context.Context, tenantID string, b Booking) (Booking, error) {
	if m.createFn == nil {
		panic("createFn not configured")
	}
	return m.createFn(ctx, tenantID, b)
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

// frozenNow pins the clock so date-window assertions are deterministic.
var frozenNow = time.Date(2026, time.March, 10, 14, 30, 0, 0, time.UTC)

func newServiceAt(repo Repository) *Service {
	svc := New(repo)
	svc.now = func() time.Time { return frozenNow }
	return svc
}

func echoCreate() func(ctx context.Context, tenantID string, b Booking) (Booking, error) {
	return func(ctx context.Context, tenantID string, b Booking) (Booking, error) {
		b.ID = 1
		b.CreatedAt = frozenNow
		return b, nil
	}
}

func TestSlotsGrid(t *testing.T) {
	t.Parallel()

	slots := Slots()
	require.Len(t, slots, 17)
	require.Equal(t, "09:00", slots[0])
	require.Equal(t, "09:30", slots[1])
	require.Equal(t, "16:30", slots[len(slots)-2])
	require.Equal(t, "17:00", slots[len(slots)-1])
	require.NotContains(t, slots, "17:30")
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc := newServiceAt(&mockRepository{})

	_, err := svc.Create(context.Background(), fullScope("demo"), CreateInput{
		Date:   "10-03-2026",
		Time:   "2pm",
		Status: "maybe",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "date")
	require.Contains(t, validationErr.Fields, "time")
	require.Contains(t, validationErr.Fields, "status")
}

func TestCreateFullScopeKeepsStatus(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{createFn: echoCreate()}
	svc := newServiceAt(repo)

	booking, err := svc.Create(context.Background(), fullScope("demo"), CreateInput{
		Date:        "2026-03-12",
		Time:        "10:15",
		Status:      StatusConfirmed,
		Description: "Recurring trim",
		Customer:    CustomerSnapshot{Name: "Jane", Service: "Haircut"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, booking.Status)
	require.Equal(t, "Recurring trim", booking.Description)
	// Dashboard callers are not bound to the public slot grid.
	require.Equal(t, "10:15", booking.Time)
}

func TestCreateDefaultsStatusToPending(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{createFn: echoCreate()}
	svc := newServiceAt(repo)

	booking, err := svc.Create(context.Background(), fullScope("demo"), CreateInput{
		Date:     "2026-03-12",
		Time:     "10:00",
		Customer: CustomerSnapshot{Name: "Jane", Service: "Haircut"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, booking.Status)
}

func TestCreateDefaultDescription(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{createFn: echoCreate()}
	svc := newServiceAt(repo)

	booking, err := svc.Create(context.Background(), fullScope("demo"), CreateInput{
		Date:     "2026-03-12",
		Time:     "10:00",
		Customer: CustomerSnapshot{Name: "Jane", Service: "Haircut"},
	})
	require.NoError(t, err)
	require.Equal(t, "Booking for Jane - Haircut", booking.Description)
}

func TestCreateBookOnlyForcesPending(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{createFn: echoCreate()}
	svc := newServiceAt(repo)

	booking, err := svc.Create(context.Background(), bookOnlyScope("demo"), CreateInput{
		Date:     "2026-03-12",
		Time:     "09:30",
		Status:   StatusConfirmed,
		Customer: CustomerSnapshot{Name: "Jane", Service: "Haircut"},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, booking.Status)
	require.Equal(t, "demo", booking.TenantID)
}

func TestCreateBookOnlyRequiresOfferedSlot(t *testing.T) {
	t.Parallel()

	svc := newServiceAt(&mockRepository{})

	_, err := svc.Create(context.Background(), bookOnlyScope("demo"), CreateInput{
		Date:     "2026-03-12",
		Time:     "10:15",
		Customer: CustomerSnapshot{Name: "Jane"},
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "time")
}

func TestCreateBookOnlyRequiresCustomerName(t *testing.T) {
	t.Parallel()

	svc := newServiceAt(&mockRepository{})

	_, err := svc.Create(context.Background(), bookOnlyScope("demo"), CreateInput{
		Date: "2026-03-12",
		Time: "09:30",
	})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Contains(t, validationErr.Fields, "customer.name")
}

func TestCreateBookOnlyDateWindow(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{createFn: echoCreate()}
	svc := newServiceAt(repo)
	scope := bookOnlyScope("demo")

	tests := []struct {
		name    string
		date    string
		allowed bool
	}{
		{name: "today", date: "2026-03-10", allowed: true},
		{name: "window edge", date: "2026-04-09", allowed: true},
		{name: "yesterday", date: "2026-03-09", allowed: false},
		{name: "past the window", date: "2026-04-10", allowed: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Create(context.Background(), scope, CreateInput{
				Date:     tt.date,
				Time:     "09:30",
				Customer: CustomerSnapshot{Name: "Jane"},
			})
			if tt.allowed {
				require.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			require.Contains(t, validationErr.Fields, "date")
		})
	}
}

func TestListForbiddenForBookOnly(t *testing.T) {
	t.Parallel()

	svc := newServiceAt(&mockRepository{})

	_, err := svc.List(context.Background(), bookOnlyScope("demo"))
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		deleteFn: func(ctx context.Context, tenantID string, id int64) (bool, error) {
			require.Equal(t, "demo", tenantID)
			return id == 7, nil
		},
	}
	svc := newServiceAt(repo)

	require.NoError(t, svc.Delete(context.Background(), fullScope("demo"), 7))
	require.ErrorIs(t, svc.Delete(context.Background(), fullScope("demo"), 8), ErrNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), bookOnlyScope("demo"), 7), ErrForbidden)
}
