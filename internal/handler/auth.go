package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/auth"
	"github.com/hiredronepilots/api/internal/config"
	"github.com/hiredronepilots/api/internal/middleware"
	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/service"
	"github.com/hiredronepilots/api/internal/token"
	"github.com/hiredronepilots/api/internal/validate"
)

// AuthHandler bundles dependencies for the magic-link login endpoints.
type AuthHandler struct {
	Cfg        config.Config
	DB         *sql.DB
	Identities *repository.IdentityRepo
	Links      *repository.MagicLinkRepo
	Sessions   *repository.SessionRepo
	Limiter    *auth.Limiter
	Mailer     *service.Mailer
}

func NewAuthHandler(cfg config.Config, db *sql.DB, identities *repository.IdentityRepo,
	links *repository.MagicLinkRepo, sessions *repository.SessionRepo,
	limiter *auth.Limiter, mailer *service.Mailer) *AuthHandler {
	return &AuthHandler{
		Cfg: cfg, DB: db, Identities: identities, Links: links,
		Sessions: sessions, Limiter: limiter, Mailer: mailer,
	}
}

type requestLinkReq struct {
	Email string `json:"email"`
}

// genericLinkMessage is returned for every request-link call, whether or
// not the email is registered and whether or not it was throttled.  The
// responses must be indistinguishable to resist account enumeration.
const genericLinkMessage = "If that email is registered, a sign-in link is on its way."

// RequestLink handles POST /api/auth/request-link.  Unregistered emails,
// malformed emails and throttled identities all receive the same
// generic success response.  A registered, unthrottled identity gets a
// magic link valid for a short window, emailed best-effort.
func (h *AuthHandler) RequestLink(c echo.Context) error {
	var req requestLinkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"message": genericLinkMessage})
	}
	email, err := validate.NormalizeEmail(req.Email)
	if err != nil {
		// Malformed email: same response as an unknown one.
		return c.JSON(http.StatusOK, echo.Map{"message": genericLinkMessage})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ident, err := h.Identities.GetByEmail(ctx, email)
	if err != nil {
		// Unknown email: same response, no link.
		return c.JSON(http.StatusOK, echo.Map{"message": genericLinkMessage})
	}
	if !h.Limiter.Allow("magic_link", ident.Email) {
		// Silently throttled. Not an error: erroring would reveal the
		// account exists.
		return c.JSON(http.StatusOK, echo.Map{"message": genericLinkMessage})
	}

	raw, hash, err := token.Issue(token.SessionBytes)
	if err != nil {
		return respondErr(c, err)
	}
	expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.MagicLinkTTLMin) * time.Minute)
	if err := h.Links.Create(ctx, ident.ID, hash, expiresAt); err != nil {
		return respondErr(c, err)
	}
	loginURL := h.Mailer.MagicLinkURL(raw)
	_ = h.Mailer.SendMagicLink(ctx, ident.Email, loginURL) // best-effort

	if h.Cfg.IsDev() {
		// Dev convenience only: echo the link so local flows work
		// without a mail sink.
		return c.JSON(http.StatusOK, echo.Map{"message": genericLinkMessage, "dev_login_url": loginURL})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": genericLinkMessage})
}

// Verify handles GET /api/auth/verify?token=.  On success it consumes
// the link, creates a session and redirects with the session cookie
// set.  Every failure redirects to the login page with an error code;
// link consumption and session creation share one transaction so a
// consumed link without a session is never observable.
func (h *AuthHandler) Verify(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		return h.loginRedirect(c, "invalid")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return h.loginRedirect(c, "invalid")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	link, err := h.Links.GetByHashForUpdateTx(ctx, tx, token.Hash(raw))
	if err != nil {
		return h.loginRedirect(c, "invalid")
	}
	if link.UsedAt != nil {
		return h.loginRedirect(c, "used")
	}
	if time.Now().UTC().After(link.ExpiresAt) {
		return h.loginRedirect(c, "expired")
	}

	ident, err := h.Identities.GetByID(ctx, link.IdentityID)
	if err != nil {
		return h.loginRedirect(c, "invalid")
	}

	if err := h.Links.MarkUsedTx(ctx, tx, link.ID); err != nil {
		return h.loginRedirect(c, "invalid")
	}
	sessionRaw, sessionHash, err := token.Issue(token.SessionBytes)
	if err != nil {
		return h.loginRedirect(c, "invalid")
	}
	expiresAt := time.Now().UTC().Add(time.Duration(h.Cfg.SessionTTLDays) * 24 * time.Hour)
	if err := h.Sessions.CreateTx(ctx, tx, ident.ID, sessionHash, expiresAt); err != nil {
		return h.loginRedirect(c, "invalid")
	}
	if ident.Role == model.RoleAdmin {
		if err := h.Identities.TouchLastLoginTx(ctx, tx, ident.ID); err != nil {
			return h.loginRedirect(c, "invalid")
		}
	}
	if err := tx.Commit(); err != nil {
		return h.loginRedirect(c, "invalid")
	}
	committed = true

	c.SetCookie(sessionCookie(h.Cfg, sessionRaw, expiresAt))
	target := "/pilot"
	if ident.Role == model.RoleAdmin {
		target = "/admin"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout handles POST /api/auth/logout.  It revokes the session behind
// the cookie when present and always clears the cookie; logout never
// fails from the client's perspective.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		_ = h.Sessions.RevokeByHash(ctx, token.Hash(cookie.Value))
	}
	c.SetCookie(expiredSessionCookie(h.Cfg))
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *AuthHandler) loginRedirect(c echo.Context, code string) error {
	return c.Redirect(http.StatusSeeOther, "/login?error="+url.QueryEscape(code))
}

// sessionCookie builds the hdp_session cookie carrying a raw session
// token.  Secure is enforced outside dev.
func sessionCookie(cfg config.Config, raw string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    raw,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   !cfg.IsDev(),
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredSessionCookie clears the session cookie on logout.
func expiredSessionCookie(cfg config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !cfg.IsDev(),
		SameSite: http.SameSiteLaxMode,
	}
}
