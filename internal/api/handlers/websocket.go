package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/ws"
)

// BoardWebSocket handles real-time board collaboration
func BoardWebSocket(hub *ws.Hub, mgr *board.Manager) gin.HandlerFunc {
	return ws.ServeBoard(hub, mgr)
}
