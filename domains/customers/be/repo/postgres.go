package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slotwise/slotwise-saas/domains/customers/be/service"
)

// PostgresRepository stores customers in a table keyed by (tenant_id, id).
// Ids are allocated per tenant inside the insert so they stay monotonic
// within a partition, matching the in-memory implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository ensures the backing table exists and returns the repository.
func NewPostgresRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresRepository, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS customers (
			tenant_id  text NOT NULL,
			id         bigint NOT NULL,
			name       text NOT NULL,
			email      text NOT NULL DEFAULT '',
			phone      text NOT NULL DEFAULT '',
			created_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (tenant_id, id)
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensure customers table: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) List(ctx context.Context, tenantID string) ([]service.Customer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, phone, tenant_id, created_at
		 FROM customers WHERE tenant_id = $1 ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]service.Customer, 0)
	for rows.Next() {
		var c service.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.TenantID, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, tenantID string, c service.Customer) (service.Customer, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (tenant_id, id, name, email, phone)
		 VALUES ($1, (SELECT COALESCE(MAX(id), 0) + 1 FROM customers WHERE tenant_id = $1), $2, $3, $4)
		 RETURNING id, created_at`,
		tenantID, c.Name, c.Email, c.Phone,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return service.Customer{}, err
	}
	c.TenantID = tenantID
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM customers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Purge(ctx context.Context, tenantID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE tenant_id = $1`, tenantID)
	return err
}

// Ensure interface compliance.
var _ service.Repository = (*PostgresRepository)(nil)
