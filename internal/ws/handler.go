package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/tactics/internal/board"
)

// Origins are checked by middleware.WebSocketCORSCheck before the upgrade.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 65536
	sendBuffer = 256
)

// Client is one browser connected to a board room.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	id      string
	boardID string
	send    chan []byte
}

// Hub fans board events out to every client watching that board.
type Hub struct {
	rooms      map[string]map[string]*Client // boardID -> clientID -> Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	relay *Relay
}

// NewHub creates a new Hub. Call Run before accepting connections.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetRelay forwards every local board event to other instances through r.
func (h *Hub) SetRelay(r *Relay) {
	h.mu.Lock()
	h.relay = r
	h.mu.Unlock()
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, room := range h.rooms {
				for _, c := range room {
					c.conn.Close()
				}
				delete(h.rooms, id)
			}
			h.mu.Unlock()
			log.Println("[WS] hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.boardID]; !exists {
				h.rooms[client.boardID] = make(map[string]*Client)
			}
			h.rooms[client.boardID][client.id] = client
			size := len(h.rooms[client.boardID])
			h.mu.Unlock()
			log.Printf("[WS] client %s joined board %s (room_size=%d)", client.id, client.boardID, size)

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.boardID]; exists {
				if cur, ok := room[client.id]; ok && cur == client {
					delete(room, client.id)
					close(client.send)
					if len(room) == 0 {
						delete(h.rooms, client.boardID)
					}
					log.Printf("[WS] client %s left board %s", client.id, client.boardID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Attach broadcasts every event of b to its room and to the relay. It is meant to be
// registered with board.Manager.OnLoad.
func (h *Hub) Attach(b *board.Board) {
	b.Subscribe(func(ev board.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("[WS] error marshaling %s event for board %s: %v", ev.Type, ev.BoardID, err)
			return
		}
		h.broadcastRaw(ev.BoardID, data)

		h.mu.RLock()
		relay := h.relay
		h.mu.RUnlock()
		if relay != nil {
			relay.Publish(ev.BoardID, data)
		}
	})
}

// BroadcastToBoard sends a message to every client on a board.
func (h *Hub) BroadcastToBoard(boardID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling message: %v", err)
		return
	}
	h.broadcastRaw(boardID, data)
}

func (h *Hub) broadcastRaw(boardID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[boardID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] send buffer full for client %s on board %s, dropping message", client.id, boardID)
		}
	}
}

// RoomSize returns the number of clients watching a board.
func (h *Hub) RoomSize(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[boardID])
}

// WSMessage is an inbound client message.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for client %s: %v", c.id, err)
				return
			}
		}
	}
}

// sendJSON queues a message for this client only.
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] error marshaling message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] dropped message for client %s (buffer full)", c.id)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
