package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// Domain sentinel errors.
var (
	ErrNotFound          = errors.New("business not found")
	ErrDuplicateTenantID = errors.New("business id already exists")
	ErrDuplicateUsername = errors.New("admin username already exists")
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Business is the domain view of a tenant registry entry.
type Business struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput carries the payload to provision a business with its admin.
type CreateInput struct {
	ID            string
	Name          string
	Domain        string
	AdminUsername string
	AdminPassword string
}

// CreateResult pairs the stored business with the sanitized admin principal.
type CreateResult struct {
	Business Business
	Admin    platformauth.Principal
}

// PartitionPurger drops a tenant's record partition. Customer and booking
// repositories implement it so business deletion leaves no orphaned data.
type PartitionPurger interface {
	Purge(ctx context.Context, tenantID string) error
}

// Service provides the business lifecycle operations. All of them are
// super-admin territory; role enforcement happens at the router.
type Service struct {
	dir     persistence.Directory
	purgers []PartitionPurger
}

// New constructs a Service with required dependencies.
func New(dir persistence.Directory, purgers ...PartitionPurger) *Service {
	if dir == nil {
		panic("directory is required")
	}
	return &Service{dir: dir, purgers: purgers}
}

// List returns all businesses in insertion order.
func (s *Service) List(ctx context.Context) ([]Business, error) {
	records, err := s.dir.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Business, 0, len(records))
	for _, rec := range records {
		out = append(out, toBusiness(rec))
	}
	return out, nil
}

// Get returns a single business by id.
func (s *Service) Get(ctx context.Context, id string) (Business, error) {
	rec, err := s.dir.GetTenant(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Business{}, ErrNotFound
		}
		return Business{}, err
	}
	return toBusiness(rec), nil
}

// Create provisions the business and its admin principal atomically: the
// directory guarantees no tenant is ever observable without its admin.
func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	fieldErrors := FieldErrors{}

	slug, err := persistence.NormalizeSlug(input.ID)
	if err != nil {
		fieldErrors.add("id", err.Error())
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors.add("name", "name is required")
	}

	adminUsername := strings.TrimSpace(input.AdminUsername)
	if adminUsername == "" {
		fieldErrors.add("adminUsername", "adminUsername is required")
	}

	if len(input.AdminPassword) < 8 {
		fieldErrors.add("adminPassword", "adminPassword must be at least 8 characters")
	}

	if len(fieldErrors) > 0 {
		return CreateResult{}, &ValidationError{Fields: fieldErrors}
	}

	hash, err := platformauth.HashPassword(input.AdminPassword)
	if err != nil {
		return CreateResult{}, fmt.Errorf("hash admin password: %w", err)
	}

	tenantRec := persistence.TenantRecord{
		ID:     slug,
		Name:   name,
		Domain: strings.TrimSpace(input.Domain),
		Status: persistence.TenantStatusActive,
	}
	adminRec := persistence.PrincipalRecord{
		Username:     adminUsername,
		PasswordHash: hash,
		Role:         persistence.RoleBusinessAdmin,
		TenantID:     &slug,
		TenantName:   name,
	}

	storedTenant, storedAdmin, err := s.dir.CreateBusiness(ctx, tenantRec, adminRec)
	if err != nil {
		switch {
		case errors.Is(err, persistence.ErrDuplicateTenantID):
			return CreateResult{}, ErrDuplicateTenantID
		case errors.Is(err, persistence.ErrDuplicateUsername):
			return CreateResult{}, ErrDuplicateUsername
		default:
			return CreateResult{}, err
		}
	}

	return CreateResult{
		Business: toBusiness(storedTenant),
		Admin:    platformauth.FromRecord(storedAdmin),
	}, nil
}

// Delete removes the business, its principals, and every customer/booking
// partition stored under the tenant. Returns false when the id is unknown.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.dir.DeleteBusiness(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	for _, purger := range s.purgers {
		if err := purger.Purge(ctx, id); err != nil {
			return true, fmt.Errorf("purge tenant partition: %w", err)
		}
	}
	return true, nil
}

func toBusiness(rec persistence.TenantRecord) Business {
	return Business{
		ID:        rec.ID,
		Name:      rec.Name,
		Domain:    rec.Domain,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}
}
