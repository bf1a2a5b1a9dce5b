package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/config"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/token"
)

// BacklinkHandler serves the two backlink confirmation flows: the
// application-scoped token emailed on submission and the pilot-scoped
// token emailed on approval.  Both render a small HTML status page and
// never fail the transport: an invalid, expired or repeated
// confirmation still gets a 200 page describing the outcome.
type BacklinkHandler struct {
	Cfg          config.Config
	Applications *repository.ApplicationRepo
	Pilots       *repository.PilotRepo
}

func NewBacklinkHandler(cfg config.Config, applications *repository.ApplicationRepo,
	pilots *repository.PilotRepo) *BacklinkHandler {
	return &BacklinkHandler{Cfg: cfg, Applications: applications, Pilots: pilots}
}

func (h *BacklinkHandler) backlinkTTL() time.Duration {
	return time.Duration(h.Cfg.BacklinkTokenTTLDays) * 24 * time.Hour
}

const (
	backlinkInvalid   = "This confirmation link is not valid. Check that you copied the full URL from your email."
	backlinkExpired   = "This confirmation link has expired. Contact us to request a new one."
	backlinkConfirmed = "Thanks! Your website backlink has been confirmed."
	backlinkRepeat    = "Your website backlink was already confirmed. Nothing more to do."
)

func backlinkPage(c echo.Context, title, message string) error {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body>
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, title, title, message)
	return c.HTML(http.StatusOK, page)
}

// ConfirmApplication handles GET/POST
// /api/pilot-applications/:id/confirm-backlink?token=.  If the
// application was already approved, confirming also promotes the
// created pilot's tier.
func (h *BacklinkHandler) ConfirmApplication(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	raw := c.QueryParam("token")
	if raw == "" {
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	app, err := h.Applications.GetByBacklinkHash(ctx, token.Hash(raw))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && app.ID != id) {
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	if err != nil {
		c.Logger().Errorf("backlink lookup: %v", err)
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	if time.Now().UTC().After(app.CreatedAt.Add(h.backlinkTTL())) {
		return backlinkPage(c, "Link Expired", backlinkExpired)
	}

	changed, err := h.Applications.ConfirmBacklink(ctx, app.ID)
	if err != nil {
		c.Logger().Errorf("backlink confirm: %v", err)
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	if !changed {
		return backlinkPage(c, "Already Confirmed", backlinkRepeat)
	}
	if app.CreatedPilotID != nil {
		if err := h.Pilots.PromoteTier(ctx, *app.CreatedPilotID); err != nil {
			c.Logger().Warnf("promote pilot %d tier: %v", *app.CreatedPilotID, err)
		}
	}
	return backlinkPage(c, "Backlink Confirmed", backlinkConfirmed)
}

// ConfirmPilot handles GET/POST /api/pilots/:id/confirm-backlink?token=
// for the token emailed with the approval notice.  Confirmation and
// tier promotion happen in one statement.
func (h *BacklinkHandler) ConfirmPilot(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	raw := c.QueryParam("token")
	if raw == "" {
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pilot, err := h.Pilots.GetByBacklinkHash(ctx, token.Hash(raw))
	if errors.Is(err, sql.ErrNoRows) || (err == nil && pilot.ID != id) {
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	if err != nil {
		c.Logger().Errorf("backlink lookup: %v", err)
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	if time.Now().UTC().After(pilot.CreatedAt.Add(h.backlinkTTL())) {
		return backlinkPage(c, "Link Expired", backlinkExpired)
	}

	changed, err := h.Pilots.ConfirmBacklink(ctx, pilot.ID)
	if err != nil {
		c.Logger().Errorf("backlink confirm: %v", err)
		return backlinkPage(c, "Invalid Link", backlinkInvalid)
	}
	if !changed {
		return backlinkPage(c, "Already Confirmed", backlinkRepeat)
	}
	return backlinkPage(c, "Backlink Confirmed", backlinkConfirmed)
}
