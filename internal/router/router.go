// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-checkin/internal/config"
	"github.com/iliyamo/event-checkin/internal/handler"
	"github.com/iliyamo/event-checkin/internal/middleware"
	"github.com/iliyamo/event-checkin/internal/model"
)

// Deps carries everything the routes need.  Redis may be nil, in which case
// rate limiting is off.
type Deps struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	CheckIns  *handler.CheckInHandler
	Tokens    middleware.TokenVerifier
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
}

// New builds an echo instance with the error handler, request logging and
// all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(middleware.RequestLogger())

	RegisterRoutes(e)
	Register(e, d)
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Register registers the auth, user and check-in routes.  Everything under
// /v1 is rate limited before the token is checked, login included.  All
// routes but login need a valid access token; writes and lookups of other
// users are limited to staff, account creation to admins.
func Register(e *echo.Echo, d Deps) {
	limit := middleware.RateLimit(d.RateLimit, d.Redis)

	e.POST("/v1/auth/login", d.Auth.Login, limit)

	v1 := e.Group("/v1")
	v1.Use(limit)
	v1.Use(middleware.JWTAuth(d.Tokens))

	v1.GET("/auth/me", d.Auth.Me)
	v1.GET("/checkin", d.CheckIns.GetMine)

	staff := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	admin := middleware.RequireRole(model.RoleAdmin)
	v1.GET("/checkin/user/:id", d.CheckIns.GetByUser, staff)
	v1.GET("/checkin/record/:id", d.CheckIns.GetByID, staff)
	v1.POST("/checkin", d.CheckIns.Create, staff)
	v1.PUT("/checkin", d.CheckIns.Update, staff)

	v1.POST("/users", d.Users.Register, admin)
	v1.GET("/users/:id", d.Users.Get, staff)
}
