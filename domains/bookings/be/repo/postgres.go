package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotwise/slotwise-saas/domains/bookings/be/service"
)

// PostgresRepository stores bookings in a table keyed by (tenant_id, id) with
// the customer snapshot flattened into columns.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository ensures the backing table exists and returns the repository.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			tenant_id        text NOT NULL,
			id               bigint NOT NULL,
			booking_date     text NOT NULL,
			booking_time     text NOT NULL,
			customer_name    text NOT NULL DEFAULT '',
			customer_email   text NOT NULL DEFAULT '',
			customer_phone   text NOT NULL DEFAULT '',
			customer_service text NOT NULL DEFAULT '',
			customer_notes   text NOT NULL DEFAULT '',
			status           text NOT NULL DEFAULT 'pending',
			description      text NOT NULL DEFAULT '',
			created_at       timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (tenant_id, id)
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensure bookings table: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) List(ctx context.Context, tenantID string) ([]service.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, booking_date, booking_time,
		        customer_name, customer_email, customer_phone, customer_service, customer_notes,
		        status, description, tenant_id, created_at
		 FROM bookings WHERE tenant_id = $1 ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]service.Booking, 0)
	for rows.Next() {
		var b service.Booking
		err := rows.Scan(&b.ID, &b.Date, &b.Time,
			&b.Customer.Name, &b.Customer.Email, &b.Customer.Phone, &b.Customer.Service, &b.Customer.Notes,
			&b.Status, &b.Description, &b.TenantID, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, tenantID string, b service.Booking) (service.Booking, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO bookings (tenant_id, id, booking_date, booking_time,
		                       customer_name, customer_email, customer_phone, customer_service, customer_notes,
		                       status, description)
		 VALUES ($1, (SELECT COALESCE(MAX(id), 0) + 1 FROM bookings WHERE tenant_id = $1),
		         $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		tenantID, b.Date, b.Time,
		b.Customer.Name, b.Customer.Email, b.Customer.Phone, b.Customer.Service, b.Customer.Notes,
		b.Status, b.Description,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return service.Booking{}, err
	}
	b.TenantID = tenantID
	return b, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM bookings WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Purge(ctx context.Context, tenantID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE tenant_id = $1`, tenantID)
	return err
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
