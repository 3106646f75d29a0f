package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/repository"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// UserAccounts creates and loads accounts.
type UserAccounts interface {
	Create(ctx context.Context, email, password string, roles []string, cost int) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// UserHandler serves the /v1/users endpoints used by admins to provision
// staff and attendee accounts.
type UserHandler struct {
	Users      UserAccounts
	BcryptCost int
}

func NewUserHandler(u UserAccounts, bcryptCost int) *UserHandler {
	return &UserHandler{Users: u, BcryptCost: bcryptCost}
}

type registerReq struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type userResp struct {
	ID    uint64           `json:"id"`
	Email string           `json:"email"`
	Roles []model.UserRole `json:"roles"`
}

// Register creates an account.  Roles default to ATTENDEE.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidParameter("invalid body", "")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(req.Email, "@") {
		return apperrors.InvalidParameter("a valid email is required", "email")
	}
	if req.Password == "" {
		return apperrors.InvalidParameter("password is required", "password")
	}
	if len(req.Password) > maxPasswordBytes {
		return apperrors.InvalidParameter(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes), "password")
	}
	roles, err := normalizeRoles(req.Roles)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Email, req.Password, roles, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.InvalidParameter("email is already registered", "email")
		}
		return err
	}

	out := userResp{ID: id, Email: req.Email, Roles: make([]model.UserRole, 0, len(roles))}
	for _, r := range roles {
		out.Roles = append(out.Roles, model.UserRole{Role: r, Active: true})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// Get returns the account in the :id path parameter without its password
// hash.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound(fmt.Sprintf("no user exists with id %d", id))
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": userResp{ID: u.ID, Email: u.Email, Roles: u.Roles}})
}

// normalizeRoles upper-cases and de-duplicates role names, rejecting unknown
// ones.
func normalizeRoles(in []string) ([]string, error) {
	if len(in) == 0 {
		return []string{model.RoleAttendee}, nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.ToUpper(strings.TrimSpace(r))
		if !model.KnownRole(r) {
			return nil, apperrors.InvalidParameter(fmt.Sprintf("unknown role %q", r), "roles")
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out, nil
}
