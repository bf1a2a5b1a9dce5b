package repository

import (
	"context"
	"database/sql"

	"github.com/hiredronepilots/api/internal/model"
)

// InvitationRepo provides access to the `pilot_invitations` table.
// Expiry is never stored ahead of time: it is derived from sent_at at
// read time and only persisted lazily when an expired row is read.
type InvitationRepo struct{ DB *sql.DB }

func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{DB: db} }

const invitationCols = `id, enquiry_id, pilot_id, invite_round, token_hash, status, sent_at, opened_at`

func scanInvitation(row rowScanner) (model.PilotInvitation, error) {
	var (
		inv      model.PilotInvitation
		openedAt sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.EnquiryID, &inv.PilotID, &inv.InviteRound,
		&inv.TokenHash, &inv.Status, &inv.SentAt, &openedAt)
	if err != nil {
		return model.PilotInvitation{}, err
	}
	if openedAt.Valid {
		t := openedAt.Time
		inv.OpenedAt = &t
	}
	return inv, nil
}

// NextRoundTx computes max(invite_round)+1 for an enquiry.  The caller
// must hold the enquiry row lock so concurrent rounds cannot compute
// the same number.
func (r *InvitationRepo) NextRoundTx(ctx context.Context, tx *sql.Tx, enquiryID uint64) (uint32, error) {
	var round uint32
	err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(invite_round),0)+1 FROM pilot_invitations WHERE enquiry_id=?",
		enquiryID).Scan(&round)
	return round, err
}

// CreateBatchTx inserts all invitations of one round in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *InvitationRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, invs []model.PilotInvitation) error {
	if len(invs) == 0 {
		return nil
	}
	query := `INSERT INTO pilot_invitations (enquiry_id, pilot_id, invite_round, token_hash, status, sent_at) VALUES `
	args := make([]any, 0, len(invs)*6)
	for i, inv := range invs {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?)"
		args = append(args, inv.EnquiryID, inv.PilotID, inv.InviteRound, inv.TokenHash, inv.Status, inv.SentAt.UTC())
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByTokenHash looks an invitation up by the hash of its emailed
// token.  Missing rows surface as sql.ErrNoRows.
func (r *InvitationRepo) GetByTokenHash(ctx context.Context, tokenHash string) (model.PilotInvitation, error) {
	return scanInvitation(r.DB.QueryRowContext(ctx,
		"SELECT "+invitationCols+" FROM pilot_invitations WHERE token_hash=? LIMIT 1", tokenHash))
}

// GetByIDForPilot fetches an invitation scoped by ownership: a pilot
// can only see their own invitations.
func (r *InvitationRepo) GetByIDForPilot(ctx context.Context, id, pilotID uint64) (model.PilotInvitation, error) {
	return scanInvitation(r.DB.QueryRowContext(ctx,
		"SELECT "+invitationCols+" FROM pilot_invitations WHERE id=? AND pilot_id=? LIMIT 1", id, pilotID))
}

// MarkExpired lazily persists the derived EXPIRED status.  The write is
// best-effort and guarded so it never regresses a terminal status.
func (r *InvitationRepo) MarkExpired(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE pilot_invitations SET status=? WHERE id=? AND status IN (?,?)",
		model.InviteExpired, id, model.InviteSent, model.InviteOpened)
	return err
}

// MarkOpened flips SENT -> OPENED idempotently: opened_at keeps its
// first value on repeat reads.
func (r *InvitationRepo) MarkOpened(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE pilot_invitations
		 SET status=?, opened_at=COALESCE(opened_at, UTC_TIMESTAMP())
		 WHERE id=? AND status IN (?,?)`,
		model.InviteOpened, id, model.InviteSent, model.InviteOpened)
	return err
}

// Decline transitions SENT|OPENED -> DECLINED for the owning pilot and
// reports whether a row actually changed.  Expired, already declined
// and foreign invitations all report false.
func (r *InvitationRepo) Decline(ctx context.Context, id, pilotID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE pilot_invitations SET status=? WHERE id=? AND pilot_id=? AND status IN (?,?)",
		model.InviteDeclined, id, pilotID, model.InviteSent, model.InviteOpened)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InvitationDetail joins an invitation with the enquiry a pilot needs
// to decide on it.  Client contact details are included only once the
// invitation is open, which the handler enforces.
type InvitationDetail struct {
	Invitation  model.PilotInvitation
	Service     string
	Postcode    string
	Brief       string
	DateNeeded  *string
	Flexibility model.DateFlexibility
	ClientName  string
	ClientEmail string
	ClientPhone string
}

const detailQuery = `SELECT i.id, i.enquiry_id, i.pilot_id, i.invite_round, i.token_hash, i.status, i.sent_at, i.opened_at,
	e.service, e.postcode, e.brief, e.date_needed, e.date_flexibility, e.name, e.email, e.phone
	FROM pilot_invitations i
	JOIN enquiries e ON e.id = i.enquiry_id`

func scanDetail(row rowScanner) (InvitationDetail, error) {
	var (
		d          InvitationDetail
		openedAt   sql.NullTime
		dateNeeded sql.NullTime
	)
	err := row.Scan(&d.Invitation.ID, &d.Invitation.EnquiryID, &d.Invitation.PilotID,
		&d.Invitation.InviteRound, &d.Invitation.TokenHash, &d.Invitation.Status,
		&d.Invitation.SentAt, &openedAt,
		&d.Service, &d.Postcode, &d.Brief, &dateNeeded, &d.Flexibility,
		&d.ClientName, &d.ClientEmail, &d.ClientPhone)
	if err != nil {
		return InvitationDetail{}, err
	}
	if openedAt.Valid {
		t := openedAt.Time
		d.Invitation.OpenedAt = &t
	}
	if dateNeeded.Valid {
		iso := dateNeeded.Time.UTC().Format("2006-01-02")
		d.DateNeeded = &iso
	}
	return d, nil
}

// GetDetailByTokenHash returns the joined invitation+enquiry view for
// the anonymous token access path.
func (r *InvitationRepo) GetDetailByTokenHash(ctx context.Context, tokenHash string) (InvitationDetail, error) {
	return scanDetail(r.DB.QueryRowContext(ctx, detailQuery+" WHERE i.token_hash=? LIMIT 1", tokenHash))
}

// GetDetailByIDForPilot returns the joined view for the authenticated
// pilot access path, scoped by ownership.
func (r *InvitationRepo) GetDetailByIDForPilot(ctx context.Context, id, pilotID uint64) (InvitationDetail, error) {
	return scanDetail(r.DB.QueryRowContext(ctx, detailQuery+" WHERE i.id=? AND i.pilot_id=? LIMIT 1", id, pilotID))
}

// ListByPilot returns all invitations for a pilot, newest first.
func (r *InvitationRepo) ListByPilot(ctx context.Context, pilotID uint64) ([]InvitationDetail, error) {
	rows, err := r.DB.QueryContext(ctx, detailQuery+" WHERE i.pilot_id=? ORDER BY i.sent_at DESC", pilotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]InvitationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByEnquiry returns all invitations for an enquiry ordered by round
// then pilot, for the admin detail view.
func (r *InvitationRepo) ListByEnquiry(ctx context.Context, enquiryID uint64) ([]model.PilotInvitation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+invitationCols+" FROM pilot_invitations WHERE enquiry_id=? ORDER BY invite_round, pilot_id",
		enquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PilotInvitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
