package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

// Domain sentinel errors.
var (
	ErrNotFound  = errors.New("customer not found")
	ErrForbidden = errors.New("forbidden")
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

// Customer is a tenant-scoped contact record. IDs are unique within the
// tenant partition only.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	TenantID  string    `json:"tenantId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput carries the payload to add a customer.
type CreateInput struct {
	Name  string
	Email string
	Phone string
}

// Repository abstracts the tenant-partitioned customer store. List and Create
// auto-provision unknown partitions; Delete reports plain not-found for other
// tenants' ids.
type Repository interface {
	List(ctx context.Context, tenantID string) ([]Customer, error)
	Create(ctx context.Context, tenantID string, c Customer) (Customer, error)
	Delete(ctx context.Context, tenantID string, id int64) (bool, error)
	Purge(ctx context.Context, tenantID string) error
}

// Service provides customer operations inside an already-resolved tenant
// scope. Every method takes the Scope produced by the tenant resolver; there
// is deliberately no path that accepts a raw tenant id from a caller.
type Service struct {
	repo Repository
}

// New constructs a customers Service backed by the provided repository.
func New(repo Repository) *Service {
	if repo == nil {
		panic("customers repository is required")
	}
	return &Service{repo: repo}
}

// List returns the scope's customers in insertion order. Booking-only scopes
// may not enumerate customer data.
func (s *Service) List(ctx context.Context, scope tenant.Scope) ([]Customer, error) {
	if scope.Access != tenant.AccessFull {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, scope.TenantID)
}

// Create stores a customer under the scope's partition.
func (s *Service) Create(ctx context.Context, scope tenant.Scope, input CreateInput) (Customer, error) {
	if scope.Access != tenant.AccessFull {
		return Customer{}, ErrForbidden
	}

	fieldErrors := FieldErrors{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors.add("name", "name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email != "" && !strings.Contains(email, "@") {
		fieldErrors.add("email", "email must contain '@'")
	}
	if len(fieldErrors) > 0 {
		return Customer{}, &ValidationError{Fields: fieldErrors}
	}

	return s.repo.Create(ctx, scope.TenantID, Customer{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(input.Phone),
		TenantID: scope.TenantID,
	})
}

// Delete removes a customer by id within the scope's partition. Returns
// ErrNotFound both for unknown ids and for ids living under another tenant,
// so existence never leaks across partitions.
func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id int64) error {
	if scope.Access != tenant.AccessFull {
		return ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, scope.TenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
