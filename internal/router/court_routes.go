package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/middleware"
	"github.com/iliyamo/court-booking/internal/model"
)

// CourtPolicy decides who may list a new court.
type CourtPolicy struct {
	// RequireOwnerRole limits POST /v1/courts to OWNER accounts.
	RequireOwnerRole bool
}

// RegisterCourts registers court, availability and per-court booking
// routes.  Reads are public.  Writes need a bearer token; ownership of an
// existing court is checked in the repository.
func RegisterCourts(e *echo.Echo, ch *handler.CourtHandler, ah *handler.AvailabilityHandler, bh *handler.BookingHandler, jwtSecret string, policy CourtPolicy) {
	auth := middleware.JWTAuth(jwtSecret)

	e.GET("/v1/courts", ch.List)
	e.GET("/v1/courts/:id", ch.Get)
	e.GET("/v1/courts/:id/bookings", bh.ListByCourt)
	e.GET("/v1/courts/:id/availability", ah.List)

	create := []echo.MiddlewareFunc{auth}
	if policy.RequireOwnerRole {
		create = append(create, middleware.RequireRole(model.RoleOwner))
	}
	e.POST("/v1/courts", ch.Create, create...)
	e.PUT("/v1/courts/:id", ch.Update, auth)
	e.DELETE("/v1/courts/:id", ch.Delete, auth)
	e.PUT("/v1/courts/:id/availability", ah.Replace, auth)
}
