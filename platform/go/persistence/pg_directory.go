package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresDirectory implements Directory on top of a pgx pool. Business
// creation and deletion run inside a transaction so the tenant row and its
// principal rows commit or roll back together.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory ensures the backing tables exist and returns the directory.
func NewPostgresDirectory(ctx context.Context, pool *pgxpool.Pool) (*PostgresDirectory, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}

	d := &PostgresDirectory{pool: pool}
	if err := d.ensureTables(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *PostgresDirectory) ensureTables(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id         text PRIMARY KEY,
			name       text NOT NULL,
			domain     text NOT NULL DEFAULT '',
			status     text NOT NULL DEFAULT 'active',
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS principals (
			id            bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			username      text NOT NULL UNIQUE,
			password_hash text NOT NULL,
			role          text NOT NULL,
			tenant_id     text REFERENCES tenants (id) ON DELETE CASCADE,
			tenant_name   text NOT NULL DEFAULT '',
			created_at    timestamptz NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := d.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure directory tables: %w", err)
		}
	}
	return nil
}

const principalColumns = `id, username, password_hash, role, tenant_id, tenant_name, created_at`

func scanPrincipal(row pgx.Row) (PrincipalRecord, error) {
	var p PrincipalRecord
	err := row.Scan(&p.ID, &p.Username, &p.PasswordHash, &p.Role, &p.TenantID, &p.TenantName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PrincipalRecord{}, ErrNotFound
		}
		return PrincipalRecord{}, err
	}
	return p, nil
}

func (d *PostgresDirectory) FindPrincipalByUsername(ctx context.Context, username string) (PrincipalRecord, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE username = $1`, username)
	return scanPrincipal(row)
}

func (d *PostgresDirectory) GetPrincipal(ctx context.Context, id int64) (PrincipalRecord, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = $1`, id)
	return scanPrincipal(row)
}

func (d *PostgresDirectory) GetTenant(ctx context.Context, id string) (TenantRecord, error) {
	var t TenantRecord
	err := d.pool.QueryRow(ctx,
		`SELECT id, name, domain, status, created_at FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Domain, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TenantRecord{}, ErrNotFound
		}
		return TenantRecord{}, err
	}
	return t, nil
}

func (d *PostgresDirectory) ListTenants(ctx context.Context) ([]TenantRecord, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT id, name, domain, status, created_at FROM tenants ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []TenantRecord
	for rows.Next() {
		var t TenantRecord
		if err := rows.Scan(&t.ID, &t.Name, &t.Domain, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (d *PostgresDirectory) CreateBusiness(ctx context.Context, t TenantRecord, admin PrincipalRecord) (TenantRecord, PrincipalRecord, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return TenantRecord{}, PrincipalRecord{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO tenants (id, name, domain, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		t.ID, t.Name, t.Domain, t.Status,
	).Scan(&t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return TenantRecord{}, PrincipalRecord{}, ErrDuplicateTenantID
		}
		return TenantRecord{}, PrincipalRecord{}, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO principals (username, password_hash, role, tenant_id, tenant_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		admin.Username, admin.PasswordHash, admin.Role, admin.TenantID, admin.TenantName,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return TenantRecord{}, PrincipalRecord{}, ErrDuplicateUsername
		}
		return TenantRecord{}, PrincipalRecord{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return TenantRecord{}, PrincipalRecord{}, err
	}
	return t, admin, nil
}

func (d *PostgresDirectory) DeleteBusiness(ctx context.Context, id string) (bool, error) {
	// Principal rows cascade via the tenant_id foreign key.
	tag, err := d.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (d *PostgresDirectory) SeedPrincipal(ctx context.Context, p PrincipalRecord) (PrincipalRecord, error) {
	err := d.pool.QueryRow(ctx,
		`INSERT INTO principals (username, password_hash, role, tenant_id, tenant_name)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.Username, p.PasswordHash, p.Role, p.TenantID, p.TenantName,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return PrincipalRecord{}, ErrDuplicateUsername
		}
		return PrincipalRecord{}, err
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Ensure interface compliance.
var (
	_ Directory       = (*PostgresDirectory)(nil)
	_ PrincipalSeeder = (*PostgresDirectory)(nil)
)
