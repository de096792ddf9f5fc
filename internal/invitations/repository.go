package invitations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viw-carta/backend/internal/models"
)

const invitationColumns = `id, code, email, tenant_name, status, expires_at,
	created_by, redeemed_by, created_at, updated_at`

// Repository handles invitation persistence and the transactional
// tenant + admin-user provisioning performed on redemption.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invitations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var i models.Invitation
	err := row.Scan(&i.ID, &i.Code, &i.Email, &i.TenantName, &i.Status, &i.ExpiresAt,
		&i.CreatedBy, &i.RedeemedBy, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// HasPending reports whether a non-expired pending invitation already
// exists for email. The one-pending-per-email rule is enforced here at
// creation time, not by a database constraint.
func (r *Repository) HasPending(ctx context.Context, email string, now time.Time) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM invitations
		WHERE email = $1 AND status = 'pending' AND expires_at > $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, q, email, now).Scan(&exists)
	return exists, err
}

// Create inserts a pending invitation.
func (r *Repository) Create(ctx context.Context, code, email, tenantName string, expiresAt time.Time, createdBy uuid.UUID) (*models.Invitation, error) {
	const q = `INSERT INTO invitations (code, email, tenant_name, expires_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + invitationColumns
	return scanInvitation(r.pool.QueryRow(ctx, q, code, email, tenantName, expiresAt, createdBy))
}

// List returns all invitations, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Invitation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Invitation
	for rows.Next() {
		i, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *i)
	}
	return list, rows.Err()
}

// GetByCode returns an invitation by its code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Invitation, error) {
	return scanInvitation(r.pool.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE code = $1`, code))
}

// MarkExpired transitions a pending invitation to expired. The transition
// is one-way; used invitations are left untouched.
func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE invitations SET status = 'expired', updated_at = NOW() WHERE id = $1 AND status = 'pending'`, id)
	return err
}

// RedeemParams carries the provisioning inputs for a redemption.
type RedeemParams struct {
	Code         string
	TenantSlug   string
	TenantName   string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
}

// Redeem provisions the new tenant and its admin user and marks the
// invitation used, all in one transaction. The invitation row is locked so
// two concurrent redemptions of the same code cannot both succeed.
func (r *Repository) Redeem(ctx context.Context, p RedeemParams) (*models.Tenant, *models.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	inv, err := scanInvitation(tx.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE code = $1 FOR UPDATE`, p.Code))
	if err != nil {
		return nil, nil, err
	}
	if !inv.Redeemable(time.Now()) {
		return nil, nil, ErrNotRedeemable
	}

	var tenant models.Tenant
	err = tx.QueryRow(ctx, `INSERT INTO tenants (slug, name) VALUES ($1, $2)
		RETURNING id, slug, name, COALESCE(description,''), subscription_plan, subscription_status, created_at, updated_at`,
		p.TenantSlug, p.TenantName).
		Scan(&tenant.ID, &tenant.Slug, &tenant.Name, &tenant.Description,
			&tenant.SubscriptionPlan, &tenant.SubscriptionStatus, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}

	var user models.User
	err = tx.QueryRow(ctx, `INSERT INTO users (tenant_id, username, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), 'admin')
		RETURNING id, tenant_id, username, email, password_hash, COALESCE(full_name,''), role, active, created_at, updated_at`,
		tenant.ID, p.Username, p.Email, p.PasswordHash, p.FullName).
		Scan(&user.ID, &user.TenantID, &user.Username, &user.Email, &user.Password,
			&user.FullName, &user.Role, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE invitations SET status = 'used', redeemed_by = $2, updated_at = NOW() WHERE id = $1`,
		inv.ID, user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &tenant, &user, nil
}

// ErrNotRedeemable means the invitation is not in a redeemable state
// (already used, expired, or past its expiry timestamp).
var ErrNotRedeemable = errors.New("invitation not redeemable")

// IsNotFound reports whether err is a no-rows result.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// (duplicate slug, username, or email).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
