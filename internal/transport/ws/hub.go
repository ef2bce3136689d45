package ws

import (
	"academyhub/internal/logger"
	"academyhub/internal/service"
	"encoding/json"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgLeadCreated announces a completed diagnostic to the sales feed
const MsgLeadCreated = MessageType(service.MsgLeadCreated)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans admin feed messages out to every connected back-office client
type Hub struct {
	admins map[*Connection]struct{}

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}

	log *logger.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	AdminID string
	Send    chan []byte
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		admins:     make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log.With("component", "ws"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn := range h.admins {
				delete(h.admins, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.admins[conn] = struct{}{}
			h.mu.Unlock()
			h.log.Info("admin connected", "admin_id", conn.AdminID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.admins[conn]; ok {
				delete(h.admins, conn)
				close(conn.Send)
				h.log.Info("admin disconnected", "admin_id", conn.AdminID)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.admins {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
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

// Close disconnects every client and stops the hub
func (h *Hub) Close() {
	close(h.done)
}

// Count returns the number of connected admins
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.admins)
}

// BroadcastToAdmins sends a message to every admin (implements service.Broadcaster).
// Messages are dropped when the hub is saturated so completion never blocks on the feed.
func (h *Hub) BroadcastToAdmins(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("ws payload marshal failed", "type", msgType, "error", err)
		return
	}
	msg, _ := json.Marshal(&Message{Type: MessageType(msgType), Payload: data})
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.log.Warn("ws broadcast dropped", "type", msgType)
	}
}
