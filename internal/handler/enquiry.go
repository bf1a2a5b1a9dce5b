package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/service"
	"github.com/hiredronepilots/api/internal/validate"
)

// EnquiryHandler serves the public enquiry submission endpoint.
type EnquiryHandler struct {
	DB        *sql.DB
	Enquiries *repository.EnquiryRepo
	Audit     *repository.AuditRepo
	Mailer    *service.Mailer
}

func NewEnquiryHandler(db *sql.DB, enquiries *repository.EnquiryRepo,
	audit *repository.AuditRepo, mailer *service.Mailer) *EnquiryHandler {
	return &EnquiryHandler{DB: db, Enquiries: enquiries, Audit: audit, Mailer: mailer}
}

// submittedStatus is the status a successful submission reports back:
// ACK_SENT once both the acknowledgement mail and the status advance
// went through, otherwise the committed NEW.
func submittedStatus(mailErr, advanceErr error) model.EnquiryStatus {
	if mailErr == nil && advanceErr == nil {
		return model.EnquiryAckSent
	}
	return model.EnquiryNew
}

// Create handles POST /api/enquiries.  The row is inserted in NEW
// together with its audit event; the acknowledgement email goes out
// after commit, and only once it is queued does the enquiry advance to
// ACK_SENT.  A mail failure leaves the enquiry in NEW for a later
// retry, never failing the submission.
func (h *EnquiryHandler) Create(c echo.Context) error {
	var in validate.EnquiryInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rec, err := validate.Enquiry(in)
	if err != nil {
		return respondErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	enq := model.Enquiry{
		Name:            rec.Name,
		Email:           rec.Email,
		Phone:           rec.Phone,
		Service:         rec.Service,
		DateNeeded:      rec.DateNeeded,
		DateFlexibility: rec.DateFlexibility,
		Postcode:        rec.Postcode,
		Brief:           rec.Brief,
		ConsentGiven:    rec.ConsentGiven,
	}

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
	if err := h.Enquiries.CreateTx(ctx, tx, &enq); err != nil {
		return respondErr(c, err)
	}
	if err := h.Audit.InsertTx(ctx, tx, model.AuditEvent{
		EntityType: "enquiry",
		EntityID:   enq.ID,
		Action:     "enquiry_submitted",
		Detail:     `{"service":"` + enq.Service + `"}`,
	}); err != nil {
		return respondErr(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondErr(c, err)
	}
	committed = true

	mailErr := h.Mailer.SendEnquiryAck(ctx, enq.Email, enq.Name)
	advanceErr := mailErr
	if mailErr == nil {
		advanceErr = h.Enquiries.AdvanceStatus(ctx, enq.ID, model.EnquiryNew, model.EnquiryAckSent)
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": enq.ID, "status": submittedStatus(mailErr, advanceErr)})
}
