package repository

import (
	"context"
	"database/sql"

	"github.com/hiredronepilots/api/internal/model"
)

// ApplicationRepo provides access to the `pilot_applications` table.
type ApplicationRepo struct{ DB *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{DB: db} }

const applicationCols = `id, name, email, phone, location, website_url, experience, status,
	review_note, reviewed_at, backlink_token_hash, backlink_confirmed_at, created_pilot_id, created_at`

func scanApplication(row rowScanner) (model.PilotApplication, error) {
	var (
		a           model.PilotApplication
		reviewedAt  sql.NullTime
		confirmedAt sql.NullTime
		pilotID     sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Location, &a.WebsiteURL,
		&a.Experience, &a.Status, &a.ReviewNote, &reviewedAt, &a.BacklinkTokenHash,
		&confirmedAt, &pilotID, &a.CreatedAt)
	if err != nil {
		return model.PilotApplication{}, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		a.BacklinkConfirmedAt = &t
	}
	if pilotID.Valid {
		v := uint64(pilotID.Int64)
		a.CreatedPilotID = &v
	}
	return a, nil
}

// Create inserts a new application in status SUBMITTED and returns its id.
func (r *ApplicationRepo) Create(ctx context.Context, a *model.PilotApplication) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO pilot_applications (name, email, phone, location, website_url, experience,
		 status, backlink_token_hash) VALUES (?,?,?,?,?,?,?,?)`,
		a.Name, a.Email, a.Phone, a.Location, a.WebsiteURL, a.Experience,
		model.ApplicationSubmitted, a.BacklinkTokenHash)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Status = model.ApplicationSubmitted
	return nil
}

// GetByID fetches an application by id.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (model.PilotApplication, error) {
	return scanApplication(r.DB.QueryRowContext(ctx,
		"SELECT "+applicationCols+" FROM pilot_applications WHERE id=? LIMIT 1", id))
}

// GetForUpdateTx locks the application row at the start of a review
// transaction, serializing concurrent approvals of the same application.
func (r *ApplicationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.PilotApplication, error) {
	return scanApplication(tx.QueryRowContext(ctx,
		"SELECT "+applicationCols+" FROM pilot_applications WHERE id=? LIMIT 1 FOR UPDATE", id))
}

// SetReviewTx stamps a locked application with a new status, the review
// time and an optional note.
func (r *ApplicationRepo) SetReviewTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ApplicationStatus, note string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE pilot_applications SET status=?, review_note=?, reviewed_at=UTC_TIMESTAMP() WHERE id=?",
		status, note, id)
	return err
}

// LinkPilotTx records the pilot created by approval so re-approvals can
// return it instead of creating a duplicate.
func (r *ApplicationRepo) LinkPilotTx(ctx context.Context, tx *sql.Tx, id, pilotID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE pilot_applications SET created_pilot_id=? WHERE id=?", pilotID, id)
	return err
}

// GetByBacklinkHash looks an application up by the hash of its backlink
// confirmation token.
func (r *ApplicationRepo) GetByBacklinkHash(ctx context.Context, tokenHash string) (model.PilotApplication, error) {
	return scanApplication(r.DB.QueryRowContext(ctx,
		"SELECT "+applicationCols+" FROM pilot_applications WHERE backlink_token_hash=? LIMIT 1", tokenHash))
}

// ConfirmBacklink stamps backlink_confirmed_at once and reports whether
// the row changed.  A repeat confirmation changes nothing.
func (r *ApplicationRepo) ConfirmBacklink(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE pilot_applications SET backlink_confirmed_at=UTC_TIMESTAMP() WHERE id=? AND backlink_confirmed_at IS NULL",
		id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByStatus returns applications newest-first, optionally filtered
// by status (empty string means all).
func (r *ApplicationRepo) ListByStatus(ctx context.Context, status model.ApplicationStatus) ([]model.PilotApplication, error) {
	q := "SELECT " + applicationCols + " FROM pilot_applications"
	args := []any{}
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY id DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PilotApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
