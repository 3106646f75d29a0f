package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/logging"
	"github.com/iliyamo/event-checkin/internal/middleware"
	"github.com/iliyamo/event-checkin/internal/model"
	"github.com/iliyamo/event-checkin/internal/queue"
	"github.com/iliyamo/event-checkin/internal/service"
)

// CheckIns is the check-in use case the handler drives.
type CheckIns interface {
	FindByUserID(ctx context.Context, userID uint64) (*model.CheckIn, error)
	FindByID(ctx context.Context, id uint64) (*model.CheckIn, error)
	Create(ctx context.Context, in service.CheckInInput) (*model.CheckIn, error)
	Update(ctx context.Context, in service.CheckInInput) (*model.CheckIn, error)
}

// Publisher forwards settled check-ins to the broker.
type Publisher interface {
	PublishCheckIn(ctx context.Context, event queue.CheckInEvent) error
}

// CheckInHandler serves the /v1/checkin endpoints.
type CheckInHandler struct {
	CheckIns CheckIns
	Events   Publisher
}

func NewCheckInHandler(s CheckIns, p Publisher) *CheckInHandler {
	return &CheckInHandler{CheckIns: s, Events: p}
}

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidParameter("id must be a positive integer", name)
	}
	return id, nil
}

// GetMine returns the caller's own check-in.
func (h *CheckInHandler) GetMine(c echo.Context) error {
	uid, ok := middleware.UserIDFrom(c)
	if !ok {
		return apperrors.Unauthorized("authentication required")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ci, err := h.CheckIns.FindByUserID(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ci})
}

// GetByUser returns the check-in of the user in the :id path parameter.
func (h *CheckInHandler) GetByUser(c echo.Context) error {
	uid, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ci, err := h.CheckIns.FindByUserID(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ci})
}

// GetByID returns the check-in with the record id in the :id path parameter.
func (h *CheckInHandler) GetByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ci, err := h.CheckIns.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ci})
}

// Create records a user's first check-in.
func (h *CheckInHandler) Create(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ci, err := h.CheckIns.Create(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionCreated, ci)
	return c.JSON(http.StatusCreated, echo.Map{"data": ci})
}

// Update changes an existing check-in.
func (h *CheckInHandler) Update(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return err
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	ci, err := h.CheckIns.Update(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.ActionUpdated, ci)
	return c.JSON(http.StatusOK, echo.Map{"data": ci})
}

func bindInput(c echo.Context) (service.CheckInInput, error) {
	var in service.CheckInInput
	if err := c.Bind(&in); err != nil {
		return in, apperrors.InvalidParameter("invalid body", "")
	}
	in.Location = strings.TrimSpace(in.Location)
	if in.UserID == 0 {
		return in, apperrors.InvalidParameter("userId is required", "userId")
	}
	if in.Location == "" {
		return in, apperrors.InvalidParameter("location is required", "location")
	}
	return in, nil
}

// publish is best effort: a broker outage must not fail a check-in that is
// already stored.
func (h *CheckInHandler) publish(c echo.Context, action string, ci *model.CheckIn) {
	if h.Events == nil {
		return
	}
	actor, _ := middleware.UserIDFrom(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	ev := service.NewCheckInEvent(action, ci, actor, time.Now())
	if err := h.Events.PublishCheckIn(ctx, ev); err != nil {
		logging.Warn().Err(err).Uint64("user_id", ci.UserID).Str("action", action).Msg("check-in event not published")
	}
}
