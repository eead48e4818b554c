package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// liveness, readiness and prometheus metrics.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/health", handler.Health)
	e.GET("/healthz", handler.Readiness(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// caller profile at /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	// new access token, same refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	// accepts a refresh token in the body or a bearer header
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterLive exposes the websocket booking feed.
func RegisterLive(e *echo.Echo, l *handler.LiveHandler) {
	e.GET("/v1/live", l.Serve)
}
