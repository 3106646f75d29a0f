package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/apperrors"
	"github.com/iliyamo/event-checkin/internal/logging"
)

type errorBody struct {
	Type    string `json:"type"`
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  Domain errors keep
// their status and message; anything else is logged and reported as a
// generic 500 so driver messages never reach clients.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	body := errorBody{
		Type:    "InternalError",
		Status:  http.StatusInternalServerError,
		Title:   "Internal Error",
		Message: "an unexpected error occurred",
	}
	var he *echo.HTTPError
	if e, ok := apperrors.As(err); ok {
		body = errorBody{
			Type:    string(e.Kind),
			Status:  e.Status(),
			Title:   e.Title,
			Message: e.Message,
			Source:  e.Source,
		}
	} else if errors.As(err, &he) {
		body.Type = "HTTPError"
		body.Status = he.Code
		body.Title = http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			body.Message = msg
		}
	} else {
		logging.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(body.Status)
	} else {
		werr = c.JSON(body.Status, echo.Map{"error": body})
	}
	if werr != nil {
		logging.Error().Err(werr).Msg("write error response")
	}
}
