package repo

import (
	"context"
	"time"

	"github.com/slotwise/slotwise-saas/domains/bookings/be/service"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// MemoryRepository keeps bookings in a tenant-partitioned in-memory store.
type MemoryRepository struct {
	store *persistence.Partitioned[service.Booking]
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: persistence.NewPartitioned[service.Booking]()}
}

func (r *MemoryRepository) List(ctx context.Context, tenantID string) ([]service.Booking, error) {
	return r.store.List(tenantID), nil
}

func (r *MemoryRepository) Create(ctx context.Context, tenantID string, b service.Booking) (service.Booking, error) {
	created := r.store.Create(tenantID, func(id int64, createdAt time.Time) service.Booking {
		b.ID = id
		b.TenantID = tenantID
		b.CreatedAt = createdAt
		return b
	})
	return created, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	return r.store.Delete(tenantID, func(b service.Booking) bool { return b.ID == id }), nil
}

func (r *MemoryRepository) Purge(ctx context.Context, tenantID string) error {
	r.store.Purge(tenantID)
	return nil
}

// Ensure interface compliance.
var _ service.Repository = (*MemoryRepository)(nil)
