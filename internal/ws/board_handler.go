package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/pitch"
)

// MoveMarkerData is the payload of a move_marker message.
type MoveMarkerData struct {
	Team     pitch.Side `json:"team"`
	PlayerID string     `json:"player_id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
}

// ServeBoard upgrades GET /boards/:id/ws and joins the caller to the board room. The
// first message sent is the full board state.
func ServeBoard(hub *Hub, mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID := c.Param("id")
		b, err := mgr.Get(c.Request.Context(), boardID)
		if errors.Is(err, board.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
			return
		}
		if err != nil {
			log.Printf("[WS] load board %s failed: %v", boardID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			id:      uuid.NewString(),
			boardID: b.ID(),
			send:    make(chan []byte, sendBuffer),
		}
		client.sendState(b)

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump(mgr)
	}
}

func (c *Client) sendState(b *board.Board) {
	c.sendJSON(map[string]interface{}{
		"type":     "state",
		"board_id": b.ID(),
		"data":     b.State(),
	})
}

// readPump reads board commands until the connection closes.
func (c *Client) readPump(mgr *board.Manager) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for client %s: %v", c.id, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		b, err := mgr.Get(ctx, c.boardID)
		cancel()
		if err != nil {
			c.sendError("Board not found")
			continue
		}
		c.handleMessage(b, msg)
	}
}

// handleMessage applies one command. Results reach every viewer, this one included,
// through the board's events.
func (c *Client) handleMessage(b *board.Board, msg WSMessage) {
	switch msg.Type {
	case "pointer":
		var ev drawing.PointerEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		b.Pointer(ev)

	case "drawing_config":
		var cfg drawing.Config
		if err := json.Unmarshal(msg.Data, &cfg); err != nil {
			c.sendError("Invalid drawing config")
			return
		}
		if _, err := b.SetDrawing(cfg); err != nil {
			c.sendError(err.Error())
		}

	case "clear_drawing":
		b.ClearDrawing()

	case "move_marker":
		var data MoveMarkerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid marker data")
			return
		}
		side, err := pitch.ParseSide(string(data.Team))
		if err != nil {
			c.sendError("team must be home or away")
			return
		}
		if _, err := b.MoveMarker(side, data.PlayerID, data.X, data.Y); err != nil {
			c.sendError(err.Error())
		}

	case "get_state":
		c.sendState(b)

	default:
		c.sendError("Unknown message type")
	}
}
