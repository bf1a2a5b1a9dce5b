// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/handler"
	"github.com/hiredronepilots/api/internal/middleware"
	"github.com/hiredronepilots/api/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the anonymous endpoints: enquiry submission,
// pilot application intake, token-addressed invitation access and the
// backlink confirmation pages.  The rate limiter guards the two
// write endpoints; token-addressed reads are already gated by the
// entropy of the token itself.
func RegisterPublic(e *echo.Echo, enq *handler.EnquiryHandler, app *handler.ApplicationHandler,
	inv *handler.PilotInviteHandler, back *handler.BacklinkHandler, limit echo.MiddlewareFunc) {
	e.POST("/api/enquiries", enq.Create, limit)
	e.POST("/api/pilot-applications", app.Create, limit)

	e.GET("/api/pilot-invites/:token", inv.GetByToken)

	// Both verbs render the same HTML status page so the link works from
	// an email client preview as well as a form submit.
	e.GET("/api/pilot-applications/:id/confirm-backlink", back.ConfirmApplication)
	e.POST("/api/pilot-applications/:id/confirm-backlink", back.ConfirmApplication)
	e.GET("/api/pilots/:id/confirm-backlink", back.ConfirmPilot)
	e.POST("/api/pilots/:id/confirm-backlink", back.ConfirmPilot)
}

// RegisterAuth registers the magic-link authentication routes.  Request
// and verify are anonymous by design; logout resolves the session
// cookie itself and is tolerant of a missing one, so none of these run
// the session middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/request-link", a.RequestLink, limit)
	g.GET("/verify", a.Verify)
	g.POST("/logout", a.Logout)
}

// RegisterAdmin registers the admin-only routes behind the session and
// role middleware.
func RegisterAdmin(e *echo.Echo, enq *handler.AdminEnquiryHandler, app *handler.AdminApplicationHandler,
	sessions *repository.SessionRepo, identities *repository.IdentityRepo) {
	g := e.Group("/api/admin")
	g.Use(middleware.SessionAuth(sessions, identities))
	g.Use(middleware.RequireAdmin())

	g.GET("/enquiries", enq.List)
	g.GET("/enquiries/:id", enq.Get)
	g.POST("/enquiries/:id/invite", enq.Invite)
	g.PATCH("/enquiries/:id", enq.Close)

	g.GET("/pilot-applications", app.List)
	g.POST("/pilot-applications/:id/:action", app.Act)
}

// RegisterPilot registers the authenticated pilot routes behind the
// session and role middleware.
func RegisterPilot(e *echo.Echo, inv *handler.PilotInviteHandler,
	sessions *repository.SessionRepo, identities *repository.IdentityRepo) {
	g := e.Group("/api/pilot")
	g.Use(middleware.SessionAuth(sessions, identities))
	g.Use(middleware.RequirePilot())

	g.GET("/invitations", inv.List)
	g.GET("/invitations/:id", inv.Get)
	g.PATCH("/invitations/:id", inv.Decline)
}
