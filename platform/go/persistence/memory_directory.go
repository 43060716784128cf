package persistence

import (
	"context"
	"sync"
	"time"
)

// MemoryDirectory is a process-local Directory suitable for tests and demo
// deployments. All mutations run inside a single critical section so readers
// never observe a tenant without its admin principal.
type MemoryDirectory struct {
	mu              sync.RWMutex
	principals      []PrincipalRecord
	principalByName map[string]int
	tenants         []TenantRecord
	tenantByID      map[string]int
	nextPrincipalID int64
}

// NewMemoryDirectory constructs an empty MemoryDirectory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		principalByName: make(map[string]int),
		tenantByID:      make(map[string]int),
		nextPrincipalID: 1,
	}
}

func (d *MemoryDirectory) FindPrincipalByUsername(ctx context.Context, username string) (PrincipalRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx, ok := d.principalByName[username]
	if !ok {
		return PrincipalRecord{}, ErrNotFound
	}
	return d.principals[idx], nil
}

func (d *MemoryDirectory) GetPrincipal(ctx context.Context, id int64) (PrincipalRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, p := range d.principals {
		if p.ID == id {
			return p, nil
		}
	}
	return PrincipalRecord{}, ErrNotFound
}

func (d *MemoryDirectory) GetTenant(ctx context.Context, id string) (TenantRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx, ok := d.tenantByID[id]
	if !ok {
		return TenantRecord{}, ErrNotFound
	}
	return d.tenants[idx], nil
}

func (d *MemoryDirectory) ListTenants(ctx context.Context) ([]TenantRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]TenantRecord, len(d.tenants))
	copy(out, d.tenants)
	return out, nil
}

func (d *MemoryDirectory) CreateBusiness(ctx context.Context, t TenantRecord, admin PrincipalRecord) (TenantRecord, PrincipalRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.tenantByID[t.ID]; exists {
		return TenantRecord{}, PrincipalRecord{}, ErrDuplicateTenantID
	}
	if _, exists := d.principalByName[admin.Username]; exists {
		return TenantRecord{}, PrincipalRecord{}, ErrDuplicateUsername
	}

	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}

	admin.ID = d.nextPrincipalID
	d.nextPrincipalID++
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}

	d.tenantByID[t.ID] = len(d.tenants)
	d.tenants = append(d.tenants, t)
	d.principalByName[admin.Username] = len(d.principals)
	d.principals = append(d.principals, admin)

	return t, admin, nil
}

func (d *MemoryDirectory) DeleteBusiness(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, ok := d.tenantByID[id]
	if !ok {
		return false, nil
	}

	d.tenants = append(d.tenants[:idx], d.tenants[idx+1:]...)
	delete(d.tenantByID, id)
	for i := idx; i < len(d.tenants); i++ {
		d.tenantByID[d.tenants[i].ID] = i
	}

	kept := d.principals[:0]
	for _, p := range d.principals {
		if p.TenantID != nil && *p.TenantID == id {
			delete(d.principalByName, p.Username)
			continue
		}
		kept = append(kept, p)
	}
	d.principals = kept
	for i, p := range d.principals {
		d.principalByName[p.Username] = i
	}

	return true, nil
}

// SeedPrincipal inserts a principal directly, assigning an id. Used by the
// seed CLI and tests to provision super-admin accounts that belong to no
// tenant and therefore cannot be created through CreateBusiness.
func (d *MemoryDirectory) SeedPrincipal(ctx context.Context, p PrincipalRecord) (PrincipalRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.principalByName[p.Username]; exists {
		return PrincipalRecord{}, ErrDuplicateUsername
	}

	p.ID = d.nextPrincipalID
	d.nextPrincipalID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	d.principalByName[p.Username] = len(d.principals)
	d.principals = append(d.principals, p)
	return p, nil
}

// Ensure interface compliance.
var _ Directory = (*MemoryDirectory)(nil)
