package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hiredronepilots/api/internal/model"
)

// SessionRepo persists/validates sessions (single token_hash column;
// the raw cookie token is never stored).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// CreateTx inserts a session row inside the magic-link redemption
// transaction, so a consumed link without a session is never observable.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, identityID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (identity_id, token_hash, expires_at) VALUES (?,?,?)",
		identityID, tokenHash, expiresAt.UTC())
	return err
}

// Validate returns the session for a cookie token hash if it is neither
// revoked nor expired; otherwise sql.ErrNoRows.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (model.Session, error) {
	var (
		s          model.Session
		revokedAt  sql.NullTime
		lastSeenAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, identity_id, token_hash, expires_at, revoked_at, last_seen_at, created_at
		 FROM sessions WHERE token_hash=? LIMIT 1`,
		tokenHash).Scan(&s.ID, &s.IdentityID, &s.TokenHash, &s.ExpiresAt, &revokedAt, &lastSeenAt, &s.CreatedAt)
	if err != nil {
		return model.Session{}, err
	}
	if revokedAt.Valid {
		return model.Session{}, sql.ErrNoRows
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		return model.Session{}, sql.ErrNoRows
	}
	if lastSeenAt.Valid {
		t := lastSeenAt.Time
		s.LastSeenAt = &t
	}
	return s, nil
}

// RevokeByHash marks a session revoked.  Revoking a missing or already
// revoked session is a no-op: logout always succeeds from the client's
// perspective.
func (r *SessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// TouchLastSeen updates the activity stamp.  Callers treat failures as
// non-fatal; the stamp is advisory.
func (r *SessionRepo) TouchLastSeen(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET last_seen_at=UTC_TIMESTAMP() WHERE id=?", id)
	return err
}
