package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/apperr"
	"github.com/hiredronepilots/api/internal/config"
	"github.com/hiredronepilots/api/internal/middleware"
	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/token"
)

// PilotInviteHandler serves both invitation access paths: anonymous by
// raw token and authenticated pilot by invitation id.
type PilotInviteHandler struct {
	Cfg         config.Config
	Invitations *repository.InvitationRepo
}

func NewPilotInviteHandler(cfg config.Config, invitations *repository.InvitationRepo) *PilotInviteHandler {
	return &PilotInviteHandler{Cfg: cfg, Invitations: invitations}
}

func (h *PilotInviteHandler) inviteTTL() time.Duration {
	return time.Duration(h.Cfg.InviteTokenTTLDays) * 24 * time.Hour
}

// inviteDetailJSON is the view a pilot gets when opening an invitation.
// Client contact details are only ever rendered from here, after the
// open transition has been applied.
type inviteDetailJSON struct {
	ID              uint64                `json:"id"`
	InviteRound     uint32                `json:"invite_round"`
	Status          model.InviteStatus    `json:"status"`
	SentAt          time.Time             `json:"sent_at"`
	OpenedAt        *time.Time            `json:"opened_at"`
	Service         string                `json:"service"`
	Postcode        string                `json:"postcode"`
	Brief           string                `json:"brief"`
	DateNeeded      *string               `json:"date_needed"`
	DateFlexibility model.DateFlexibility `json:"date_flexibility"`
	ClientName      string                `json:"client_name"`
	ClientEmail     string                `json:"client_email"`
	ClientPhone     string                `json:"client_phone,omitempty"`
}

func renderInviteDetail(d repository.InvitationDetail, status model.InviteStatus) inviteDetailJSON {
	return inviteDetailJSON{
		ID:              d.Invitation.ID,
		InviteRound:     d.Invitation.InviteRound,
		Status:          status,
		SentAt:          d.Invitation.SentAt,
		OpenedAt:        d.Invitation.OpenedAt,
		Service:         d.Service,
		Postcode:        d.Postcode,
		Brief:           d.Brief,
		DateNeeded:      d.DateNeeded,
		DateFlexibility: d.Flexibility,
		ClientName:      d.ClientName,
		ClientEmail:     d.ClientEmail,
		ClientPhone:     d.ClientPhone,
	}
}

// open applies the shared redemption rules to a fetched invitation:
// only SENT and OPENED rows are visible at all, a lazily derived expiry
// persists best-effort and reports 410, and a live row flips to OPENED
// idempotently before the details are returned.
func (h *PilotInviteHandler) open(ctx context.Context, c echo.Context, d repository.InvitationDetail) error {
	inv := d.Invitation
	if inv.Status != model.InviteSent && inv.Status != model.InviteOpened {
		// DECLINED and EXPIRED look identical to missing rows.
		return respondErr(c, apperr.NotFound("invitation not found"))
	}
	resolved := model.ResolveInvitationStatus(inv.Status, inv.SentAt, h.inviteTTL(), time.Now().UTC())
	if resolved == model.InviteExpired {
		if err := h.Invitations.MarkExpired(ctx, inv.ID); err != nil {
			c.Logger().Warnf("mark invitation %d expired: %v", inv.ID, err)
		}
		return respondErr(c, apperr.Gone("invitation has expired"))
	}
	if err := h.Invitations.MarkOpened(ctx, inv.ID); err != nil {
		return respondErr(c, err)
	}
	if inv.OpenedAt == nil {
		now := time.Now().UTC()
		d.Invitation.OpenedAt = &now
	}
	return c.JSON(http.StatusOK, renderInviteDetail(d, model.InviteOpened))
}

// GetByToken handles GET /api/pilot-invites/:token, the anonymous link
// from the invitation email.
func (h *PilotInviteHandler) GetByToken(c echo.Context) error {
	raw := c.Param("token")
	if raw == "" {
		return respondErr(c, apperr.NotFound("invitation not found"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Invitations.GetDetailByTokenHash(ctx, token.Hash(raw))
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("invitation not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	return h.open(ctx, c, d)
}

// Get handles GET /api/pilot/invitations/:id for the authenticated
// pilot.  Ownership is part of the lookup, so a foreign invitation id
// is indistinguishable from a missing one.
func (h *PilotInviteHandler) Get(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok || ident.PilotID == nil {
		return respondErr(c, apperr.Auth())
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Invitations.GetDetailByIDForPilot(ctx, id, *ident.PilotID)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("invitation not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	return h.open(ctx, c, d)
}

// List handles GET /api/pilot/invitations.  Statuses are rendered with
// the lazy expiry rule applied but nothing is persisted here; the row
// flips on the next open attempt instead.
func (h *PilotInviteHandler) List(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok || ident.PilotID == nil {
		return respondErr(c, apperr.Auth())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Invitations.ListByPilot(ctx, *ident.PilotID)
	if err != nil {
		return respondErr(c, err)
	}

	type listItemJSON struct {
		ID          uint64             `json:"id"`
		InviteRound uint32             `json:"invite_round"`
		Status      model.InviteStatus `json:"status"`
		SentAt      time.Time          `json:"sent_at"`
		Service     string             `json:"service"`
		Postcode    string             `json:"postcode"`
	}
	now := time.Now().UTC()
	items := make([]listItemJSON, 0, len(details))
	for _, d := range details {
		inv := d.Invitation
		items = append(items, listItemJSON{
			ID:          inv.ID,
			InviteRound: inv.InviteRound,
			Status:      model.ResolveInvitationStatus(inv.Status, inv.SentAt, h.inviteTTL(), now),
			SentAt:      inv.SentAt,
			Service:     d.Service,
			Postcode:    d.Postcode,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"invitations": items})
}

// Decline handles PATCH /api/pilot/invitations/:id with
// {"action":"decline"}.  Declines are not reversible and are refused on
// expired rows even when the expiry has not been persisted yet.
func (h *PilotInviteHandler) Decline(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok || ident.PilotID == nil {
		return respondErr(c, apperr.Auth())
	}
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
	if in.Action != "decline" {
		return respondErr(c, apperr.Validation("unsupported action"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invitations.GetByIDForPilot(ctx, id, *ident.PilotID)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("invitation not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	resolved := model.ResolveInvitationStatus(inv.Status, inv.SentAt, h.inviteTTL(), time.Now().UTC())
	if resolved == model.InviteExpired {
		if err := h.Invitations.MarkExpired(ctx, inv.ID); err != nil {
			c.Logger().Warnf("mark invitation %d expired: %v", inv.ID, err)
		}
		return respondErr(c, apperr.NotFound("invitation cannot be declined"))
	}

	declined, err := h.Invitations.Decline(ctx, id, *ident.PilotID)
	if err != nil {
		return respondErr(c, err)
	}
	if !declined {
		return respondErr(c, apperr.NotFound("invitation cannot be declined"))
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.InviteDeclined})
}
