package middleware

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-checkin/internal/logging"
	"github.com/iliyamo/event-checkin/internal/metrics"
)

// RequestLogger assigns a request id (honouring an incoming X-Request-ID),
// logs one line per request and counts it.
func RequestLogger() echo.MiddlewareFunc {
	log := logging.With("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is known.
				c.Error(err)
			}

			status := c.Response().Status
			metrics.HTTPRequests.WithLabelValues(c.Path(), c.Request().Method, strconv.Itoa(status)).Inc()

			ev := log.Info()
			if status >= 500 {
				ev = log.Error().Err(err)
			}
			ev.Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
