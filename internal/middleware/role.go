package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/model"
)

// RequireRole rejects requests whose claims hold none of the given roles as
// an active role.  It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return apperrors.Unauthorized("authentication required")
			}
			if !model.HasRole(claims.Roles, roles...) {
				return apperrors.Forbidden("insufficient role")
			}
			return next(c)
		}
	}
}
