package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/model"
)

const maxMessageRunes = 2000

// MessageHandler sends and lists direct messages.
type MessageHandler struct {
	Messages MessageStore
	Users    UserStore
	Log      *slog.Logger
}

func NewMessageHandler(messages MessageStore, users UserStore, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{Messages: messages, Users: users, Log: logger}
}

type sendMessageReq struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	content := strings.TrimSpace(req.Content)
	if req.ReceiverID == 0 || content == "" {
		return badRequest(c, "receiver_id and content required")
	}
	if utf8.RuneCountInString(content) > maxMessageRunes {
		return badRequest(c, "content too long")
	}
	uid := getUserID(c)
	if req.ReceiverID == uid {
		return badRequest(c, "cannot message yourself")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	exists, err := h.Users.Exists(ctx, req.ReceiverID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	m := &model.Message{SenderID: uid, ReceiverID: req.ReceiverID, Content: content}
	if err := h.Messages.Create(ctx, m); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Conversation lists messages between the caller and :userId, oldest
// first.
func (h *MessageHandler) Conversation(c echo.Context) error {
	other, ok := parseID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	msgs, err := h.Messages.Conversation(ctx, getUserID(c), other)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, msgs)
}
