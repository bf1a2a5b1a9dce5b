package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hiredronepilots/api/internal/model"
)

// MagicLinkRepo persists one-time login links (hash only).
type MagicLinkRepo struct{ DB *sql.DB }

func NewMagicLinkRepo(db *sql.DB) *MagicLinkRepo { return &MagicLinkRepo{DB: db} }

// Create inserts a magic-link row for an identity.
func (r *MagicLinkRepo) Create(ctx context.Context, identityID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO magic_links (identity_id, token_hash, expires_at) VALUES (?,?,?)",
		identityID, tokenHash, expiresAt.UTC())
	return err
}

// GetByHashForUpdateTx looks a link up by token hash with a row lock so
// concurrent redemptions of the same raw token serialize: exactly one
// wins and the other observes used_at set.
func (r *MagicLinkRepo) GetByHashForUpdateTx(ctx context.Context, tx *sql.Tx, tokenHash string) (model.MagicLink, error) {
	var (
		link   model.MagicLink
		usedAt sql.NullTime
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, identity_id, token_hash, expires_at, used_at, created_at
		 FROM magic_links WHERE token_hash=? LIMIT 1 FOR UPDATE`,
		tokenHash).Scan(&link.ID, &link.IdentityID, &link.TokenHash, &link.ExpiresAt, &usedAt, &link.CreatedAt)
	if err != nil {
		return model.MagicLink{}, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		link.UsedAt = &t
	}
	return link, nil
}

// MarkUsedTx consumes a link.  A used link never authenticates again.
func (r *MagicLinkRepo) MarkUsedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE magic_links SET used_at=UTC_TIMESTAMP() WHERE id=? AND used_at IS NULL", id)
	return err
}
