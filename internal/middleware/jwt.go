// Package middleware contains the echo middleware shared by all routes.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/service"
)

// Context keys set by JWTAuth.
const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
)

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(token string) (*service.Claims, error)
}

// JWTAuth validates the Bearer token of each request and stores its claims
// and the numeric user id in the echo context.  Verification failures are
// returned as produced by the verifier, so an expired token surfaces as
// apperrors.KindUnprocessableRequest.
func JWTAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return apperrors.Unauthorized("missing bearer token")
			}

			claims, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				return err
			}
			uid, err := claims.UserID()
			if err != nil {
				return apperrors.UnprocessableRequest("token subject is not a user id")
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by JWTAuth.
func ClaimsFrom(c echo.Context) (*service.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*service.Claims)
	return claims, ok
}

// UserIDFrom returns the authenticated user id stored by JWTAuth.
func UserIDFrom(c echo.Context) (uint64, bool) {
	uid, ok := c.Get(UserIDKey).(uint64)
	return uid, ok
}
