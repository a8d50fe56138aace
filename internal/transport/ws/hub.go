package ws

import (
	"encoding/json"
	"sync"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgAnalyticsUpdate MessageType = "analytics_update"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans analytics updates out to dashboard connections
type Hub struct {
	conns map[*Connection]struct{}
	mu    sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once

	log *logger.Logger
}

// Connection represents a dashboard WebSocket connection
type Connection struct {
	Send chan []byte
	Hub  *Hub
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(h *Hub) *Connection {
	return &Connection{
		Send: make(chan []byte, 16),
		Hub:  h,
	}
}

// NewHub creates a hub and starts its loop
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			n := len(h.conns)
			h.mu.Unlock()
			h.log.Debug("dashboard connected", "subscribers", n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
			}
			n := len(h.conns)
			h.mu.Unlock()
			h.log.Debug("dashboard disconnected", "subscribers", n)

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Subscribers returns the number of connected dashboards
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Stop closes every connection and ends the hub loop
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// BroadcastAnalytics sends a snapshot to every dashboard (implements service.Broadcaster)
func (h *Hub) BroadcastAnalytics(snapshot model.AnalyticsSnapshot) {
	data, err := Encode(MsgAnalyticsUpdate, snapshot)
	if err != nil {
		h.log.Error("failed to encode analytics update", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.log.Warn("analytics update dropped, broadcast queue full")
	}
}

// Encode wraps payload in a Message envelope
func Encode(msgType MessageType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: data})
}
