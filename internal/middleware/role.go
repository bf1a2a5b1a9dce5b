package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hiredronepilots/api/internal/model"
)

// RequireAdmin enforces that the authenticated identity has the ADMIN
// role and a non-null admin back-reference.  Failures are a generic
// 401: the caller is never told whether the session was missing or the
// role was wrong.  It assumes SessionAuth ran earlier in the chain.
func RequireAdmin() echo.MiddlewareFunc {
	return requireRole(model.RoleAdmin)
}

// RequirePilot enforces the DRONE_PILOT role with a non-null pilot
// back-reference.
func RequirePilot() echo.MiddlewareFunc {
	return requireRole(model.RoleDronePilot)
}

func requireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok || ident.Role != role {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			// A role without its back-reference is a malformed
			// principal and fails closed like any other auth error.
			switch role {
			case model.RoleAdmin:
				if ident.AdminID == nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
			case model.RoleDronePilot:
				if ident.PilotID == nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
			}
			return next(c)
		}
	}
}
