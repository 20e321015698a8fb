package handlers

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/drawing"
)

// SetDrawing switches the drawing tool, width and color.
func SetDrawing(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg drawing.Config
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drawing config"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		applied, err := b.SetDrawing(cfg)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, applied)
	}
}

// DrawPointer feeds one pointer sample to the drawing layer.
func DrawPointer(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ev drawing.PointerEvent
		if err := c.ShouldBindJSON(&ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pointer event"})
			return
		}
		switch ev.Phase {
		case drawing.PhaseDown, drawing.PhaseMove, drawing.PhaseUp, drawing.PhaseLeave:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "phase must be down, move, up or leave"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"changed": b.Pointer(ev)})
	}
}

// ClearDrawing wipes the drawing layer.
func ClearDrawing(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		b.ClearDrawing()
		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
	}
}

// DrawingPNG returns the drawing layer alone, transparent where nothing is drawn.
func DrawingPNG(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := b.EncodeDrawing(&buf); err != nil {
			log.Printf("[BOARD] encode drawing of %s failed: %v", b.ID(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

// MoveMarker drags one side's marker to a new pixel position.
func MoveMarker(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.X == nil || req.Y == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "x and y required"})
			return
		}
		side, ok := sideParam(c)
		if !ok {
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		m, err := b.MoveMarker(side, c.Param("playerId"), *req.X, *req.Y)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}
