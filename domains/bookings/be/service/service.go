package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slotwise/slotwise-saas/platform/go/tenant"
)

// Domain sentinel errors.
var (
	ErrNotFound  = errors.New("booking not found")
	ErrForbidden = errors.New("forbidden")
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Bookable window and slot grid offered to widget callers.
const (
	slotOpenHour    = 9
	slotCloseHour   = 17
	bookingDateSpan = 30 * 24 * time.Hour
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

// CustomerSnapshot embeds the booking contact as captured at submission time.
// Bookings keep a snapshot rather than a customer reference because widget
// callers are anonymous and have no customer record.
type CustomerSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Notes   string `json:"notes"`
}

// Booking is a tenant-scoped appointment record.
type Booking struct {
	ID          int64            `json:"id"`
	Date        string           `json:"date"` // calendar date, YYYY-MM-DD
	Time        string           `json:"time"` // HH:MM
	Customer    CustomerSnapshot `json:"customer"`
	Status      string           `json:"status"`
	Description string           `json:"description"`
	TenantID    string           `json:"tenantId"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// CreateInput carries the payload to create a booking.
type CreateInput struct {
	Date        string
	Time        string
	Customer    CustomerSnapshot
	Status      string
	Description string
}

// Repository abstracts the tenant-partitioned booking store.
type Repository interface {
	List(ctx context.Context, tenantID string) ([]Booking, error)
	Create(ctx context.Context, tenantID string, b Booking) (Booking, error)
	Delete(ctx context.Context, tenantID string, id int64) (bool, error)
	Purge(ctx context.Context, tenantID string) error
}

// Service provides booking operations inside an already-resolved tenant
// scope. Booking creation is the single operation open to booking-only
// (anonymous widget) scopes.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New constructs a bookings Service backed by the provided repository.
func New(repo Repository) *Service {
	if repo == nil {
		panic("bookings repository is required")
	}
	return &Service{repo: repo, now: time.Now}
}

// Slots returns the half-hour appointment grid offered to widget callers,
// 09:00 through 17:00.
func Slots() []string {
	slots := make([]string, 0, 2*(slotCloseHour-slotOpenHour)+1)
	for hour := slotOpenHour; hour <= slotCloseHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		if hour < slotCloseHour {
			slots = append(slots, fmt.Sprintf("%02d:30", hour))
		}
	}
	return slots
}

// List returns the scope's bookings in insertion order. Booking-only scopes
// may not enumerate bookings.
func (s *Service) List(ctx context.Context, scope tenant.Scope) ([]Booking, error) {
	if scope.Access != tenant.AccessFull {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, scope.TenantID)
}

// Create stores a booking under the scope's partition. Both full and
// booking-only scopes may create; booking-only callers are additionally held
// to the public slot grid, the 30-day date window, and a forced pending
// status.
func (s *Service) Create(ctx context.Context, scope tenant.Scope, input CreateInput) (Booking, error) {
	fieldErrors := FieldErrors{}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		fieldErrors.add("date", "date must be YYYY-MM-DD")
	}

	if _, err := time.Parse("15:04", input.Time); err != nil {
		fieldErrors.add("time", "time must be HH:MM")
	}

	status := input.Status
	if status == "" {
		status = StatusPending
	}
	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled:
	default:
		fieldErrors.add("status", "status must be pending, confirmed, or cancelled")
	}

	if scope.Access == tenant.AccessBookOnly {
		status = StatusPending
		if strings.TrimSpace(input.Customer.Name) == "" {
			fieldErrors.add("customer.name", "name is required")
		}
		if !slotOffered(input.Time) {
			fieldErrors.add("time", "time is not an offered slot")
		}
		if err == nil && !s.dateInWindow(date) {
			fieldErrors.add("date", "date must be within the next 30 days")
		}
	}

	if len(fieldErrors) > 0 {
		return Booking{}, &ValidationError{Fields: fieldErrors}
	}

	description := strings.TrimSpace(input.Description)
	if description == "" && input.Customer.Name != "" {
		description = fmt.Sprintf("Booking for %s - %s", input.Customer.Name, input.Customer.Service)
	}

	return s.repo.Create(ctx, scope.TenantID, Booking{
		Date:        input.Date,
		Time:        input.Time,
		Customer:    input.Customer,
		Status:      status,
		Description: description,
		TenantID:    scope.TenantID,
	})
}

// Delete removes a booking by id within the scope's partition.
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

func (s *Service) dateInWindow(date time.Time) bool {
	today := s.now().UTC().Truncate(24 * time.Hour)
	return !date.Before(today) && !date.After(today.Add(bookingDateSpan))
}

func slotOffered(value string) bool {
	for _, slot := range Slots() {
		if slot == value {
			return true
		}
	}
	return false
}
