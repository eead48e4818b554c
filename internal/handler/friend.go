package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// FriendHandler manages the caller's friendship edges.
type FriendHandler struct {
	Friends FriendStore
	Users   UserStore
	Log     *slog.Logger
}

func NewFriendHandler(friends FriendStore, users UserStore, logger *slog.Logger) *FriendHandler {
	return &FriendHandler{Friends: friends, Users: users, Log: logger}
}

func (h *FriendHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	friends, err := h.Friends.ListFriends(ctx, getUserID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, friends)
}

// Add creates caller -> :id.  Adding yourself is 400, an unknown user 404
// and an existing edge 409.
func (h *FriendHandler) Add(c echo.Context) error {
	friendID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	uid := getUserID(c)
	if friendID == uid {
		return badRequest(c, "cannot befriend yourself")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	exists, err := h.Users.Exists(ctx, friendID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	f, err := h.Friends.Add(ctx, uid, friendID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Remove deletes caller -> :id.  A missing edge is 404.
func (h *FriendHandler) Remove(c echo.Context) error {
	friendID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Friends.Remove(ctx, getUserID(c), friendID); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
