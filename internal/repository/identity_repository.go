package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hiredronepilots/api/internal/model"
)

// IdentityRepo provides access to the `identities` table.  Admin
// identities are pre-seeded by migrations; pilot identities are created
// when an application is approved.
type IdentityRepo struct{ DB *sql.DB }

func NewIdentityRepo(db *sql.DB) *IdentityRepo { return &IdentityRepo{DB: db} }

const identityCols = `id, email, role, admin_id, pilot_id, last_login_at, created_at`

func scanIdentity(row *sql.Row) (model.Identity, error) {
	var (
		ident       model.Identity
		adminID     sql.NullInt64
		pilotID     sql.NullInt64
		lastLoginAt sql.NullTime
	)
	err := row.Scan(&ident.ID, &ident.Email, &ident.Role, &adminID, &pilotID, &lastLoginAt, &ident.CreatedAt)
	if err != nil {
		return model.Identity{}, err
	}
	if adminID.Valid {
		v := uint64(adminID.Int64)
		ident.AdminID = &v
	}
	if pilotID.Valid {
		v := uint64(pilotID.Int64)
		ident.PilotID = &v
	}
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		ident.LastLoginAt = &t
	}
	return ident, nil
}

// GetByEmail fetches an identity by normalized email.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (model.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanIdentity(r.DB.QueryRowContext(ctx,
		"SELECT "+identityCols+" FROM identities WHERE email=? LIMIT 1", email))
}

// GetByID fetches an identity by id.
func (r *IdentityRepo) GetByID(ctx context.Context, id uint64) (model.Identity, error) {
	return scanIdentity(r.DB.QueryRowContext(ctx,
		"SELECT "+identityCols+" FROM identities WHERE id=? LIMIT 1", id))
}

// EnsurePilotIdentityTx creates or reuses the identity for a newly
// approved pilot and returns its id.  The email row is locked so two
// concurrent approvals cannot race on identity creation.  An email
// already bound to a non-pilot identity cannot be attached to a pilot:
// that fails with ErrEmailAlreadyAdmin.  An existing pilot identity
// with no back-reference yet is linked to the new pilot.
func (r *IdentityRepo) EnsurePilotIdentityTx(ctx context.Context, tx *sql.Tx, email string, pilotID uint64) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		id     uint64
		role   model.Role
		linked sql.NullInt64
	)
	err := tx.QueryRowContext(ctx,
		"SELECT id, role, pilot_id FROM identities WHERE email=? LIMIT 1 FOR UPDATE",
		email).Scan(&id, &role, &linked)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			"INSERT INTO identities (email, role, pilot_id) VALUES (?,?,?)",
			email, model.RoleDronePilot, pilotID)
		if err != nil {
			return 0, err
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return uint64(newID), nil
	case err != nil:
		return 0, err
	}
	if role != model.RoleDronePilot {
		return 0, ErrEmailAlreadyAdmin
	}
	if !linked.Valid {
		if _, err := tx.ExecContext(ctx,
			"UPDATE identities SET pilot_id=? WHERE id=?", pilotID, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// TouchLastLoginTx stamps last_login_at for admin identities on
// successful magic-link redemption.
func (r *IdentityRepo) TouchLastLoginTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE identities SET last_login_at=UTC_TIMESTAMP() WHERE id=?", id)
	return err
}
