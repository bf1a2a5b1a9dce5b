package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/service"
	"github.com/hiredronepilots/api/internal/token"
	"github.com/hiredronepilots/api/internal/validate"
)

// ApplicationHandler serves the public pilot application endpoint.
type ApplicationHandler struct {
	Applications *repository.ApplicationRepo
	Mailer       *service.Mailer
}

func NewApplicationHandler(applications *repository.ApplicationRepo, mailer *service.Mailer) *ApplicationHandler {
	return &ApplicationHandler{Applications: applications, Mailer: mailer}
}

// Create handles POST /api/pilot-applications.  The backlink token is
// minted up front so the acknowledgement email can carry the
// confirmation URL; only its hash is stored.
func (h *ApplicationHandler) Create(c echo.Context) error {
	var in validate.ApplicationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rec, err := validate.Application(in)
	if err != nil {
		return respondErr(c, err)
	}

	raw, hash, err := token.Issue(token.InviteBytes)
	if err != nil {
		return respondErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	app := model.PilotApplication{
		Name:              rec.Name,
		Email:             rec.Email,
		Phone:             rec.Phone,
		Location:          rec.Location,
		WebsiteURL:        rec.WebsiteURL,
		Experience:        rec.Experience,
		BacklinkTokenHash: hash,
	}
	if err := h.Applications.Create(ctx, &app); err != nil {
		return respondErr(c, err)
	}

	_ = h.Mailer.SendApplicationReceived(ctx, app.Email, app.Name,
		h.Mailer.BacklinkURL(app.ID, raw))

	return c.JSON(http.StatusCreated, echo.Map{"id": app.ID, "status": app.Status})
}
