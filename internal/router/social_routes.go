package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/handler"
	"github.com/iliyamo/court-booking/internal/middleware"
)

// RegisterSocial registers friendship and messaging endpoints.  All of
// them act on the authenticated caller.
func RegisterSocial(e *echo.Echo, f *handler.FriendHandler, m *handler.MessageHandler, jwtSecret string) {
	// per-route middleware keeps unknown /v1 paths answering 404
	auth := middleware.JWTAuth(jwtSecret)
	e.GET("/v1/friends", f.List, auth)
	e.POST("/v1/friends/:id", f.Add, auth)
	e.DELETE("/v1/friends/:id", f.Remove, auth)
	e.POST("/v1/messages", m.Send, auth)
	e.GET("/v1/messages/:userId", m.Conversation, auth)
}
