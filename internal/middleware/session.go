package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/model"
	"github.com/hiredronepilots/api/internal/repository"
	"github.com/hiredronepilots/api/internal/token"
)

// SessionCookieName is the HTTP-only cookie carrying the raw session
// token.  Only its hash ever reaches storage.
const SessionCookieName = "hdp_session"

// identityKey is the context key under which SessionAuth stores the
// resolved identity.
const identityKey = "identity"

// SessionAuth returns middleware that resolves the session cookie to an
// identity and stores it in the request context.  It fails closed: a
// missing cookie, unknown token, revoked or expired session all yield a
// generic 401.  On success it touches last_seen_at best-effort in the
// background; a failure there never fails the request.
func SessionAuth(sessions *repository.SessionRepo, identities *repository.IdentityRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			sess, err := sessions.Validate(ctx, token.Hash(cookie.Value))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ident, err := identities.GetByID(ctx, sess.IdentityID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set(identityKey, ident)

			// Advisory activity stamp, detached from the request lifecycle.
			go func(id uint64) {
				bg, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = sessions.TouchLastSeen(bg, id)
			}(sess.ID)

			return next(c)
		}
	}
}

// CurrentIdentity returns the identity resolved by SessionAuth.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	ident, ok := c.Get(identityKey).(model.Identity)
	return ident, ok
}
