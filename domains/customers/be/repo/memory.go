package repo

import (
	"context"
	"time"

	"github.com/slotwise/slotwise-saas/domains/customers/be/service"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// MemoryRepository keeps customers in a tenant-partitioned in-memory store.
type MemoryRepository struct {
	store *persistence.Partitioned[service.Customer]
}

// NewMemoryRepository constructs a MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: persistence.NewPartitioned[service.Customer]()}
}

func (r *MemoryRepository) List(ctx context.Context, tenantID string) ([]service.Customer, error) {
	return r.store.List(tenantID), nil
}

func (r *MemoryRepository) Create(ctx context.Context, tenantID string, c service.Customer) (service.Customer, error) {
	created := r.store.Create(tenantID, func(id int64, createdAt time.Time) service.Customer {
		c.ID = id
		c.TenantID = tenantID
		c.CreatedAt = createdAt
		return c
	})
	return created, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	return r.store.Delete(tenantID, func(c service.Customer) bool { return c.ID == id }), nil
}

func (r *MemoryRepository) Purge(ctx context.Context, tenantID string) error {
	r.store.Purge(tenantID)
	return nil
}

// Ensure interface compliance.
var _ service.Repository = (*MemoryRepository)(nil)
