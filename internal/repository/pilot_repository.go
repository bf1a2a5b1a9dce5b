package repository

import (
	"context"
	"database/sql"

	"github.com/hiredronepilots/api/internal/model"
)

// PilotRepo provides access to the `pilots` table.
type PilotRepo struct{ DB *sql.DB }

func NewPilotRepo(db *sql.DB) *PilotRepo { return &PilotRepo{DB: db} }

const pilotCols = `id, slug, name, email, phone, location, website_url, tier, is_active,
	backlink_token_hash, backlink_confirmed_at, application_id, created_at`

func scanPilot(row rowScanner) (model.Pilot, error) {
	var (
		p           model.Pilot
		confirmedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Email, &p.Phone, &p.Location,
		&p.WebsiteURL, &p.Tier, &p.IsActive, &p.BacklinkTokenHash, &confirmedAt,
		&p.ApplicationID, &p.CreatedAt)
	if err != nil {
		return model.Pilot{}, err
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		p.BacklinkConfirmedAt = &t
	}
	return p, nil
}

// GetByID fetches a pilot by id.
func (r *PilotRepo) GetByID(ctx context.Context, id uint64) (model.Pilot, error) {
	return scanPilot(r.DB.QueryRowContext(ctx,
		"SELECT "+pilotCols+" FROM pilots WHERE id=? LIMIT 1", id))
}

// ListActiveTx returns all pilots eligible for invitations.  It runs
// inside the invite-round transaction so the candidate set is read
// under the same snapshot that the inserts commit with.
func (r *PilotRepo) ListActiveTx(ctx context.Context, tx *sql.Tx) ([]model.Pilot, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+pilotCols+" FROM pilots WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Pilot, 0)
	for rows.Next() {
		p, err := scanPilot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateTx inserts a pilot promoted from an approved application and
// populates the generated id.
func (r *PilotRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Pilot) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO pilots (slug, name, email, phone, location, website_url, tier, is_active,
		 backlink_token_hash, application_id) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.Slug, p.Name, p.Email, p.Phone, p.Location, p.WebsiteURL, p.Tier, p.IsActive,
		p.BacklinkTokenHash, p.ApplicationID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// SlugsLikeTx returns every existing slug equal to base or starting
// with "base-", for collision-resolved slug generation within the
// approval transaction.
func (r *PilotRepo) SlugsLikeTx(ctx context.Context, tx *sql.Tx, base string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT slug FROM pilots WHERE slug=? OR slug LIKE CONCAT(?, '-%')", base, base)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// GetByBacklinkHash looks a pilot up by the hash of its backlink token.
func (r *PilotRepo) GetByBacklinkHash(ctx context.Context, tokenHash string) (model.Pilot, error) {
	return scanPilot(r.DB.QueryRowContext(ctx,
		"SELECT "+pilotCols+" FROM pilots WHERE backlink_token_hash=? LIMIT 1", tokenHash))
}

// ConfirmBacklink stamps backlink_confirmed_at and promotes the tier in
// one guarded statement.  It reports whether the row changed; a second
// confirmation changes nothing, which callers render as "already
// confirmed".  The tier promotion is one-way.
func (r *PilotRepo) ConfirmBacklink(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE pilots SET backlink_confirmed_at=UTC_TIMESTAMP(), tier=?
		 WHERE id=? AND backlink_confirmed_at IS NULL`,
		model.TierIntegratedOperator, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PromoteTier upgrades a pilot to INTEGRATED_OPERATOR.  Used when the
// application-scoped backlink flow confirms after approval.
func (r *PilotRepo) PromoteTier(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE pilots SET tier=? WHERE id=?", model.TierIntegratedOperator, id)
	return err
}
