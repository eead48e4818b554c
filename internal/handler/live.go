package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-booking/internal/realtime"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
)

// LiveHandler upgrades to a websocket and streams booking events.  The
// optional court_id query parameter narrows the feed to one court.
type LiveHandler struct {
	Hub      *realtime.Hub
	Upgrader websocket.Upgrader
	Log      *slog.Logger
}

// NewLiveHandler accepts any origin when allowed is empty.
func NewLiveHandler(hub *realtime.Hub, allowed []string, logger *slog.Logger) *LiveHandler {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[o] = true
	}
	return &LiveHandler{
		Hub: hub,
		Log: logger,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return len(origins) == 0 || origins[r.Header.Get("Origin")]
			},
		},
	}
}

func (h *LiveHandler) Serve(c echo.Context) error {
	var courtID uint64
	if s := c.QueryParam("court_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return badRequest(c, "invalid court_id")
		}
		courtID = id
	}
	conn, err := h.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.Log.Debug("live upgrade failed", "error", err)
		return nil
	}
	client := realtime.NewClient(uuid.NewString(), courtID)
	h.Hub.AddClient(client)

	go h.write(conn, client)
	h.read(conn, client)
	return nil
}

// read drains client frames so control messages are processed; the feed
// is one-way.
func (h *LiveHandler) read(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		h.Hub.RemoveClient(client)
		_ = conn.Close()
	}()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *LiveHandler) write(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
