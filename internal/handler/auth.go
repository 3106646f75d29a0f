package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/middleware"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/repository"
	"github.com/iliyamo/event-checkin/internal/service"
	"github.com/iliyamo/event-checkin/internal/utils"
)

// UserFinder loads users for login.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer issues access tokens.
type TokenIssuer interface {
	Issue(identity service.Identity) (string, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users  UserFinder
	Tokens TokenIssuer
}

func NewAuthHandler(u UserFinder, t TokenIssuer) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies email and password and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidParameter("invalid body", "")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return apperrors.InvalidParameter("email is required", "email")
	}
	if req.Password == "" {
		return apperrors.InvalidParameter("password is required", "password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password)
			return apperrors.Unauthorized("invalid credentials")
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperrors.Unauthorized("invalid credentials")
	}

	token, err := h.Tokens.Issue(service.UserIdentity{User: u})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"auth": token}})
}

// Me returns the verified claims of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperrors.Unauthorized("authentication required")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{
		"id":    claims.Subject,
		"email": claims.Email,
		"roles": claims.Roles,
	}})
}
