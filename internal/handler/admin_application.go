package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/apperr"
	"github.com/hiredronepilots/api/internal/middleware"
	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/service"
	"github.com/hiredronepilots/api/internal/token"
)

// AdminApplicationHandler serves the admin review endpoints for pilot
// applications.
type AdminApplicationHandler struct {
	DB           *sql.DB
	Applications *repository.ApplicationRepo
	Pilots       *repository.PilotRepo
	Identities   *repository.IdentityRepo
	Audit        *repository.AuditRepo
	Mailer       *service.Mailer
}

func NewAdminApplicationHandler(db *sql.DB, applications *repository.ApplicationRepo,
	pilots *repository.PilotRepo, identities *repository.IdentityRepo,
	audit *repository.AuditRepo, mailer *service.Mailer) *AdminApplicationHandler {
	return &AdminApplicationHandler{
		DB:           db,
		Applications: applications,
		Pilots:       pilots,
		Identities:   identities,
		Audit:        audit,
		Mailer:       mailer,
	}
}

// applicationJSON is the admin-facing rendering of an application row.
type applicationJSON struct {
	ID                  uint64                  `json:"id"`
	Name                string                  `json:"name"`
	Email               string                  `json:"email"`
	Phone               string                  `json:"phone,omitempty"`
	Location            string                  `json:"location"`
	WebsiteURL          string                  `json:"website_url,omitempty"`
	Experience          string                  `json:"experience"`
	Status              model.ApplicationStatus `json:"status"`
	ReviewNote          string                  `json:"review_note,omitempty"`
	ReviewedAt          *time.Time              `json:"reviewed_at"`
	BacklinkConfirmedAt *time.Time              `json:"backlink_confirmed_at"`
	CreatedPilotID      *uint64                 `json:"created_pilot_id"`
	CreatedAt           time.Time               `json:"created_at"`
}

func renderApplication(a model.PilotApplication) applicationJSON {
	return applicationJSON{
		ID:                  a.ID,
		Name:                a.Name,
		Email:               a.Email,
		Phone:               a.Phone,
		Location:            a.Location,
		WebsiteURL:          a.WebsiteURL,
		Experience:          a.Experience,
		Status:              a.Status,
		ReviewNote:          a.ReviewNote,
		ReviewedAt:          a.ReviewedAt,
		BacklinkConfirmedAt: a.BacklinkConfirmedAt,
		CreatedPilotID:      a.CreatedPilotID,
		CreatedAt:           a.CreatedAt,
	}
}

// List handles GET /api/admin/pilot-applications with an optional
// ?status= filter.
func (h *AdminApplicationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := model.ApplicationStatus(c.QueryParam("status"))
	if status != "" && !knownApplicationStatus(status) {
		return respondErr(c, apperr.Validation("unknown application status"))
	}
	apps, err := h.Applications.ListByStatus(ctx, status)
	if err != nil {
		return respondErr(c, err)
	}
	items := make([]applicationJSON, 0, len(apps))
	for _, a := range apps {
		items = append(items, renderApplication(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": items})
}

func knownApplicationStatus(s model.ApplicationStatus) bool {
	switch s {
	case model.ApplicationSubmitted, model.ApplicationUnderReview,
		model.ApplicationApproved, model.ApplicationRejected, model.ApplicationNeedsInfo:
		return true
	}
	return false
}

// reviewActions maps the URL action segment to the status it applies.
// Approval is handled separately because it creates a pilot.
var reviewActions = map[string]model.ApplicationStatus{
	"review":       model.ApplicationUnderReview,
	"reject":       model.ApplicationRejected,
	"request-info": model.ApplicationNeedsInfo,
}

// Act handles POST /api/admin/pilot-applications/:id/:action where
// action is approve, review, reject or request-info.
func (h *AdminApplicationHandler) Act(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}
	action := c.Param("action")
	if action == "approve" {
		return h.approve(c, id)
	}
	target, ok := reviewActions[action]
	if !ok {
		return respondErr(c, apperr.Validation("unsupported action"))
	}
	return h.review(c, id, action, target)
}

// review applies a non-creating status change with an optional note.
func (h *AdminApplicationHandler) review(c echo.Context, id uint64, action string, target model.ApplicationStatus) error {
	var in struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
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

	app, err := h.Applications.GetForUpdateTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("application not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	if !app.Status.CanTransition(target) {
		return respondErr(c, apperr.NotFound("application cannot be "+string(target)))
	}
	if err := h.Applications.SetReviewTx(ctx, tx, id, target, in.Note); err != nil {
		return respondErr(c, err)
	}
	if err := h.Audit.InsertTx(ctx, tx, model.AuditEvent{
		ActorID:    adminActor(c),
		EntityType: "pilot_application",
		EntityID:   id,
		Action:     "application_" + action,
	}); err != nil {
		return respondErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondErr(c, err)
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": target})
}

// approve promotes an application into a live pilot profile.  The row
// lock up front makes concurrent approvals of the same application
// serialize; a retry that finds created_pilot_id already set re-stamps
// the review metadata and returns the existing pilot instead of
// creating a duplicate.
func (h *AdminApplicationHandler) approve(c echo.Context, id uint64) error {
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

	app, err := h.Applications.GetForUpdateTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return respondErr(c, apperr.NotFound("application not found"))
	}
	if err != nil {
		return respondErr(c, err)
	}
	if !app.Status.CanTransition(model.ApplicationApproved) {
		return respondErr(c, apperr.NotFound("application cannot be approved"))
	}

	if app.CreatedPilotID != nil {
		// Idempotent retry: the pilot already exists.
		if err := h.Applications.SetReviewTx(ctx, tx, id, model.ApplicationApproved, ""); err != nil {
			return respondErr(c, err)
		}
		if err := tx.Commit(); err != nil {
			return respondErr(c, err)
		}
		committed = true
		return c.JSON(http.StatusOK, echo.Map{
			"id":       id,
			"status":   model.ApplicationApproved,
			"pilot_id": *app.CreatedPilotID,
		})
	}

	base := repository.Slugify(app.Name)
	if base == "" {
		base = "pilot"
	}
	taken, err := h.Pilots.SlugsLikeTx(ctx, tx, base)
	if err != nil {
		return respondErr(c, err)
	}
	slug := repository.NextSlug(base, taken)

	rawBacklink, backlinkHash, err := token.Issue(token.InviteBytes)
	if err != nil {
		return respondErr(c, err)
	}
	pilot := model.Pilot{
		Slug:              slug,
		Name:              app.Name,
		Email:             app.Email,
		Phone:             app.Phone,
		Location:          app.Location,
		WebsiteURL:        app.WebsiteURL,
		Tier:              model.TierStandard,
		IsActive:          true,
		BacklinkTokenHash: backlinkHash,
		ApplicationID:     app.ID,
	}
	if err := h.Pilots.CreateTx(ctx, tx, &pilot); err != nil {
		return respondErr(c, err)
	}
	if _, err := h.Identities.EnsurePilotIdentityTx(ctx, tx, app.Email, pilot.ID); err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyAdmin) {
			return respondErr(c, apperr.New(apperr.KindConflict, "email already belongs to an admin account"))
		}
		return respondErr(c, err)
	}
	if err := h.Applications.LinkPilotTx(ctx, tx, id, pilot.ID); err != nil {
		return respondErr(c, err)
	}
	if err := h.Applications.SetReviewTx(ctx, tx, id, model.ApplicationApproved, ""); err != nil {
		return respondErr(c, err)
	}
	if err := h.Audit.InsertTx(ctx, tx, model.AuditEvent{
		ActorID:    adminActor(c),
		EntityType: "pilot_application",
		EntityID:   id,
		Action:     "application_approved",
		Detail:     fmt.Sprintf(`{"pilot_id":%d,"slug":%q}`, pilot.ID, slug),
	}); err != nil {
		return respondErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondErr(c, err)
	}
	committed = true

	_ = h.Mailer.SendApprovalNotice(ctx, pilot.Email, pilot.Name, pilot.Slug,
		h.Mailer.PilotBacklinkURL(pilot.ID, rawBacklink))

	return c.JSON(http.StatusOK, echo.Map{
		"id":       id,
		"status":   model.ApplicationApproved,
		"pilot_id": pilot.ID,
		"slug":     pilot.Slug,
	})
}

// adminActor pulls the acting admin's id for audit rows.
func adminActor(c echo.Context) *uint64 {
	if ident, ok := middleware.CurrentIdentity(c); ok {
		return ident.AdminID
	}
	return nil
}
