package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/middleware"
)

// RegisterBookings registers booking endpoints.  Reading a single booking
// is public; everything else needs a bearer token.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	e.GET("/v1/bookings/:id", h.Get)
	e.POST("/v1/bookings", h.Create, auth)
	e.DELETE("/v1/bookings/:id", h.Cancel, auth)
	e.POST("/v1/bookings/:id/confirm", h.Confirm, auth)
	e.GET("/v1/my-bookings", h.Mine, auth)
}
