package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const userColumns = `id, tenant_id, username, email, password_hash,
	COALESCE(full_name,''), role, active, created_at, updated_at`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.Password,
		&u.FullName, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// ListByTenant returns the users belonging to a tenant.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.UserPublic, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tenant_id, username, email, COALESCE(full_name,''),
		role, active, created_at FROM users WHERE tenant_id = $1 ORDER BY username`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.FullName,
			&u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a new user owned by the given tenant.
func (r *Repository) Create(ctx context.Context, tenantID uuid.UUID, username, email, passwordHash, fullName string, role models.Role) (*models.User, error) {
	const q = `INSERT INTO users (tenant_id, username, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, tenantID, username, email, passwordHash, fullName, string(role)))
}

// UpdateRole changes a user's role within the given tenant.
func (r *Repository) UpdateRole(ctx context.Context, tenantID, userID uuid.UUID, role models.Role) (*models.User, error) {
	const q = `UPDATE users SET role = $3, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, tenantID, userID, string(role)))
}

// SetActive flips a user's active flag within the given tenant. Users are
// never hard-deleted.
func (r *Repository) SetActive(ctx context.Context, tenantID, userID uuid.UUID, active bool) (*models.User, error) {
	const q = `UPDATE users SET active = $3, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $1
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, tenantID, userID, active))
}

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
