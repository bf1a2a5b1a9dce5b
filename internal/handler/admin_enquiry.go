package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/apperr"
	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/service"
	"github.com/hiredronepilots/api/internal/token"
	"github.com/hiredronepilots/api/internal/validate"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminEnquiryHandler serves the admin-only enquiry endpoints: listing,
// detail, invite rounds and closing.
type AdminEnquiryHandler struct {
	DB          *sql.DB
	Enquiries   *repository.EnquiryRepo
	Invitations *repository.InvitationRepo
	Pilots      *repository.PilotRepo
	Audit       *repository.AuditRepo
	Mailer      *service.Mailer
}

func NewAdminEnquiryHandler(db *sql.DB, enquiries *repository.EnquiryRepo,
	invitations *repository.InvitationRepo, pilots *repository.PilotRepo,
	audit *repository.AuditRepo, mailer *service.Mailer) *AdminEnquiryHandler {
	return &AdminEnquiryHandler{
		DB:          db,
		Enquiries:   enquiries,
		Invitations: invitations,
		Pilots:      pilots,
		Audit:       audit,
		Mailer:      mailer,
	}
}

// enquiryJSON is the admin-facing rendering of an enquiry row.
type enquiryJSON struct {
	ID              uint64                `json:"id"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone,omitempty"`
	Service         string                `json:"service"`
	DateNeeded      *string               `json:"date_needed"`
	DateFlexibility model.DateFlexibility `json:"date_flexibility"`
	Postcode        string                `json:"postcode"`
	Brief           string                `json:"brief"`
	ConsentGiven    bool                  `json:"consent_given"`
	Status          model.EnquiryStatus   `json:"status"`
	ClosedAt        *time.Time            `json:"closed_at"`
	CreatedAt       time.Time             `json:"created_at"`
}

func renderEnquiry(e model.Enquiry) enquiryJSON {
	out := enquiryJSON{
		ID:              e.ID,
		Name:            e.Name,
		Email:           e.Email,
		Phone:           e.Phone,
		Service:         e.Service,
		DateFlexibility: e.DateFlexibility,
		Postcode:        e.Postcode,
		Brief:           e.Brief,
		ConsentGiven:    e.ConsentGiven,
		Status:          e.Status,
		ClosedAt:        e.ClosedAt,
		CreatedAt:       e.CreatedAt,
	}
	if e.DateNeeded != nil {
		iso := e.DateNeeded.UTC().Format("2006-01-02")
		out.DateNeeded = &iso
	}
	return out
}

// List handles GET /api/admin/enquiries.  Pagination is keyset based:
// rows come back newest first and next_cursor is the last id of the
// page, echoed back via ?cursor= to fetch the next one.
func (h *AdminEnquiryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var cursor uint64
	if raw := c.QueryParam("cursor"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return respondErr(c, apperr.Validation("cursor must be a positive integer"))
		}
		cursor = v
	}
	limit := defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return respondErr(c, apperr.Validation("limit must be a positive integer"))
		}
		if v > maxPageSize {
			v = maxPageSize
		}
		limit = v
	}

	enqs, err := h.Enquiries.List(ctx, cursor, limit)
	if err != nil {
		return respondErr(c, err)
	}

	items := make([]enquiryJSON, 0, len(enqs))
	for _, e := range enqs {
		items = append(items, renderEnquiry(e))
	}
	resp := echo.Map{"enquiries": items}
	if len(enqs) == limit {
		resp["next_cursor"] = enqs[len(enqs)-1].ID
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/admin/enquiries/:id and includes every
// invitation across all rounds so the admin sees who already got one.
func (h *AdminEnquiryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	enq, err := h.Enquiries.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("enquiry not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	invs, err := h.Invitations.ListByEnquiry(ctx, id)
	if err != nil {
		return respondErr(c, err)
	}

	type invitationJSON struct {
		ID          uint64             `json:"id"`
		PilotID     uint64             `json:"pilot_id"`
		InviteRound uint32             `json:"invite_round"`
		Status      model.InviteStatus `json:"status"`
		SentAt      time.Time          `json:"sent_at"`
		OpenedAt    *time.Time         `json:"opened_at"`
	}
	out := make([]invitationJSON, 0, len(invs))
	for _, inv := range invs {
		out = append(out, invitationJSON{
			ID:          inv.ID,
			PilotID:     inv.PilotID,
			InviteRound: inv.InviteRound,
			Status:      inv.Status,
			SentAt:      inv.SentAt,
			OpenedAt:    inv.OpenedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"enquiry":     renderEnquiry(enq),
		"invitations": out,
	})
}

// invitedPilot pairs a freshly minted raw token with the pilot it was
// issued for, so the handler can email after commit without re-reading.
type invitedPilot struct {
	pilot model.Pilot
	raw   string
}

// mintRound builds the invitation rows for one round, one per
// candidate, each with a fresh token and sent_at stamped to now.  The
// stamp matters: sent_at anchors the lazy-expiry TTL, so a fresh round
// must start its clock at creation time.
func mintRound(enquiryID uint64, round uint32, candidates []model.Pilot, now time.Time) ([]model.PilotInvitation, []invitedPilot, error) {
	batch := make([]model.PilotInvitation, 0, len(candidates))
	invited := make([]invitedPilot, 0, len(candidates))
	for _, p := range candidates {
		raw, hash, err := token.Issue(token.InviteBytes)
		if err != nil {
			return nil, nil, err
		}
		invited = append(invited, invitedPilot{pilot: p, raw: raw})
		batch = append(batch, model.PilotInvitation{
			EnquiryID:   enquiryID,
			PilotID:     p.ID,
			InviteRound: round,
			TokenHash:   hash,
			Status:      model.InviteSent,
			SentAt:      now,
		})
	}
	return batch, invited, nil
}

// Invite handles POST /api/admin/enquiries/:id/invite.  The whole round
// is one transaction: the enquiry row is locked first so concurrent
// rounds on the same enquiry serialize, then the candidate set is
// built, tokens are minted, the batch is inserted and the enquiry
// advances to INVITES_SENT.  Emails go out only after commit.
func (h *AdminEnquiryHandler) Invite(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}
	var in validate.InviteSelectionInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sel, err := validate.Selection(in)
	if err != nil {
		return respondErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return respondErr(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	enq, err := h.Enquiries.GetForUpdateTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("enquiry not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	if !enq.Status.CanTransition(model.EnquiryInvitesSent) {
		return respondErr(c, apperr.NotFound("enquiry cannot receive invitations"))
	}

	active, err := h.Pilots.ListActiveTx(ctx, tx)
	if err != nil {
		return respondErr(c, err)
	}
	candidates := buildCandidates(active, sel)
	if len(candidates) == 0 {
		return respondErr(c, apperr.Validation("no eligible pilots"))
	}

	round, err := h.Invitations.NextRoundTx(ctx, tx, id)
	if err != nil {
		return respondErr(c, err)
	}

	batch, invited, err := mintRound(id, round, candidates, time.Now().UTC())
	if err != nil {
		return respondErr(c, err)
	}
	if err := h.Invitations.CreateBatchTx(ctx, tx, batch); err != nil {
		return respondErr(c, err)
	}
	if err := h.Enquiries.UpdateStatusTx(ctx, tx, id, model.EnquiryInvitesSent); err != nil {
		return respondErr(c, err)
	}

	if err := h.Audit.InsertTx(ctx, tx, model.AuditEvent{
		ActorID:    adminActor(c),
		EntityType: "enquiry",
		EntityID:   id,
		Action:     "invitations_sent",
		Detail:     fmt.Sprintf(`{"invite_round":%d,"pilot_count":%d}`, round, len(batch)),
	}); err != nil {
		return respondErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondErr(c, err)
	}
	committed = true

	// Committed invitations stand even if every email fails.
	type sentJSON struct {
		PilotID uint64 `json:"pilot_id"`
		Token   string `json:"token"`
	}
	sent := make([]sentJSON, 0, len(invited))
	for _, ip := range invited {
		_ = h.Mailer.SendInvitation(ctx, ip.pilot.Email, ip.pilot.Name,
			enq.Service, enq.Postcode, h.Mailer.InviteURL(ip.raw))
		sent = append(sent, sentJSON{PilotID: ip.pilot.ID, Token: ip.raw})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"invite_round": round,
		"invitations":  sent,
	})
}

// Close handles PATCH /api/admin/enquiries/:id with {"action":"close"}.
// Closing an already-closed enquiry is a 404 rather than a silent
// success, so a redundant call is visible to the caller.
func (h *AdminEnquiryHandler) Close(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}
	var in struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if in.Action != "close" {
		return respondErr(c, apperr.Validation("unsupported action"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return respondErr(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	enq, err := h.Enquiries.GetForUpdateTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("enquiry not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	if enq.Status == model.EnquiryClosed {
		return respondErr(c, apperr.NotFound("enquiry already closed"))
	}
	if err := h.Enquiries.CloseTx(ctx, tx, id); err != nil {
		return respondErr(c, err)
	}

	if err := h.Audit.InsertTx(ctx, tx, model.AuditEvent{
		ActorID:    adminActor(c),
		EntityType: "enquiry",
		EntityID:   id,
		Action:     "enquiry_closed",
	}); err != nil {
		return respondErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondErr(c, err)
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.EnquiryClosed})
}
