package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/formation"
)

// CreateBoard starts a new board. The body is optional.
func CreateBoard(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			FieldSize string `json:"field_size"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		if req.Width != 0 || req.Height != 0 {
			if err := board.ValidPitch(req.Width, req.Height); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		var size formation.FieldSize
		if req.FieldSize != "" {
			var err error
			if size, err = formation.ParseFieldSize(req.FieldSize); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		b, err := mgr.Create(c.Request.Context())
		if err != nil {
			log.Printf("[BOARD] create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if size != "" && size != b.FieldSize() {
			if err := b.SetFieldSize(size); err != nil {
				respondError(c, err)
				return
			}
		}
		if req.Width != 0 {
			if err := b.Resize(req.Width, req.Height); err != nil {
				respondError(c, err)
				return
			}
		}
		c.JSON(http.StatusCreated, b.State())
	}
}

// GetBoard returns the full board state.
func GetBoard(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, b.State())
	}
}

// DeleteBoard removes a board everywhere.
func DeleteBoard(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := mgr.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, board.ErrBoardNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
				return
			}
			log.Printf("[BOARD] delete %s failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
	}
}

// SetFieldSize switches both teams to the default formation of a new field size.
func SetFieldSize(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			FieldSize string `json:"field_size" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "field_size required"})
			return
		}
		size, err := formation.ParseFieldSize(req.FieldSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		if err := b.SetFieldSize(size); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b.State())
	}
}

// SetFormation lines one team up in a new formation.
func SetFormation(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, ok := sideParam(c)
		if !ok {
			return
		}
		var req struct {
			Formation string `json:"formation" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "formation required"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		if err := b.SetFormation(side, req.Formation); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b.State())
	}
}

// GetLayout returns the marker positions of every active player.
func GetLayout(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		w, h := b.Size()
		c.JSON(http.StatusOK, gin.H{"width": w, "height": h, "markers": b.Layout()})
	}
}

// ResizePitch records the pitch size measured by the browser.
func ResizePitch(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width and height required"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		if err := b.Resize(req.Width, req.Height); err != nil {
			respondError(c, err)
			return
		}
		w, h := b.Size()
		c.JSON(http.StatusOK, gin.H{"width": w, "height": h, "markers": b.Layout()})
	}
}

// SetDrag toggles marker dragging.
func SetDrag(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Enabled *bool `json:"enabled"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enabled required"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		b.SetDragEnabled(*req.Enabled)
		st := b.State()
		c.JSON(http.StatusOK, gin.H{"drag_enabled": st.DragEnabled, "drawing": st.Drawing})
	}
}
