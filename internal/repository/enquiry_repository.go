package repository

import (
	"context"
	"database/sql"

	"github.com/hiredronepilots/api/internal/model"
)

// EnquiryRepo provides CRUD over the `enquiries` table.  Status moves
// are validated against the model transition table by callers before
// the corresponding UPDATE is issued; the WHERE status guards here are
// a second line of defense, not the rule itself.
type EnquiryRepo struct{ DB *sql.DB }

func NewEnquiryRepo(db *sql.DB) *EnquiryRepo { return &EnquiryRepo{DB: db} }

const enquiryCols = `id, name, email, phone, service, date_needed, date_flexibility,
	postcode, brief, consent_given, status, closed_at, created_at, updated_at`

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanEnquiry(row rowScanner) (model.Enquiry, error) {
	var (
		e          model.Enquiry
		dateNeeded sql.NullTime
		closedAt   sql.NullTime
	)
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Service, &dateNeeded,
		&e.DateFlexibility, &e.Postcode, &e.Brief, &e.ConsentGiven, &e.Status,
		&closedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Enquiry{}, err
	}
	if dateNeeded.Valid {
		t := dateNeeded.Time
		e.DateNeeded = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		e.ClosedAt = &t
	}
	return e, nil
}

// CreateTx inserts a new enquiry in status NEW and populates the
// generated id on the provided record.
func (r *EnquiryRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Enquiry) error {
	var dateNeeded any
	if e.DateNeeded != nil {
		dateNeeded = e.DateNeeded.UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO enquiries (name, email, phone, service, date_needed, date_flexibility,
		 postcode, brief, consent_given, status) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.Name, e.Email, e.Phone, e.Service, dateNeeded, e.DateFlexibility,
		e.Postcode, e.Brief, e.ConsentGiven, model.EnquiryNew)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.Status = model.EnquiryNew
	return nil
}

// GetByID fetches an enquiry by id.
func (r *EnquiryRepo) GetByID(ctx context.Context, id uint64) (model.Enquiry, error) {
	return scanEnquiry(r.DB.QueryRowContext(ctx,
		"SELECT "+enquiryCols+" FROM enquiries WHERE id=? LIMIT 1", id))
}

// GetForUpdateTx locks the enquiry row, serializing concurrent invite
// rounds (and closes) on the same enquiry.
func (r *EnquiryRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Enquiry, error) {
	return scanEnquiry(tx.QueryRowContext(ctx,
		"SELECT "+enquiryCols+" FROM enquiries WHERE id=? LIMIT 1 FOR UPDATE", id))
}

// UpdateStatusTx moves a locked enquiry to the given status.
func (r *EnquiryRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.EnquiryStatus) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE enquiries SET status=? WHERE id=?", status, id)
	return err
}

// AdvanceStatus performs a guarded, non-transactional status move used
// for the NEW -> ACK_SENT flip after the confirmation email has been
// queued.  It is a no-op when the enquiry already moved on.
func (r *EnquiryRepo) AdvanceStatus(ctx context.Context, id uint64, from, to model.EnquiryStatus) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE enquiries SET status=? WHERE id=? AND status=?", to, id, from)
	return err
}

// CloseTx stamps a locked enquiry CLOSED.
func (r *EnquiryRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE enquiries SET status=?, closed_at=UTC_TIMESTAMP() WHERE id=?",
		model.EnquiryClosed, id)
	return err
}

// List returns enquiries newest-first using keyset pagination: rows
// with id < cursor, up to limit.  A zero cursor starts from the top.
func (r *EnquiryRepo) List(ctx context.Context, cursor uint64, limit int) ([]model.Enquiry, error) {
	q := "SELECT " + enquiryCols + " FROM enquiries"
	args := []any{}
	if cursor > 0 {
		q += " WHERE id < ?"
		args = append(args, cursor)
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Enquiry, 0, limit)
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
