package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// SnapshotSource provides the snapshot sent when a dashboard connects
type SnapshotSource interface {
	Snapshot(ctx context.Context) (model.AnalyticsSnapshot, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub       *Hub
	analytics SnapshotSource
	upgrader  websocket.Upgrader
	log       *logger.Logger
}

// NewHandler creates a WebSocket handler. An origin check of nil allows all origins.
func NewHandler(hub *Hub, analytics SnapshotSource, checkOrigin func(r *http.Request) bool, log *logger.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub:       hub,
		analytics: analytics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// AnalyticsWS handles GET /v1/ws/analytics
func (h *Handler) AnalyticsWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(h.hub)

	// current state first so the dashboard never waits for the next submission
	if snapshot, err := h.analytics.Snapshot(r.Context()); err != nil {
		h.log.Warn("initial analytics snapshot failed", "error", err)
		if data, encErr := Encode(MsgError, map[string]string{"error": "analytics unavailable"}); encErr == nil {
			conn.Send <- data
		}
	} else if data, err := Encode(MsgAnalyticsUpdate, snapshot); err == nil {
		conn.Send <- data
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("websocket read error", "error", err)
			}
			break
		}
		// Dashboards are receive-only
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
