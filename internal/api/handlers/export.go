package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/render"
	"github.com/playmatatu/tactics/internal/share"
)

func writeExport(c *gin.Context, b *board.Board) {
	var buf bytes.Buffer
	if err := render.Board(&buf, b); err != nil {
		log.Printf("[BOARD] export of %s failed: %v", b.ID(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="tactics-%s.png"`, b.ID()))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// ExportPNG renders pitch, drawing and markers into one PNG.
func ExportPNG(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		writeExport(c, b)
	}
}

// CreateShare issues a read-only link to the board export.
func CreateShare(mgr *board.Manager, signer *share.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		token, exp, err := signer.Issue(b.ID())
		if err != nil {
			log.Printf("[SHARE] issue token for %s failed: %v", b.ID(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		log.Printf("[SHARE] issued share link for board %s (expires %s)", b.ID(), exp.Format("2006-01-02 15:04"))
		c.JSON(http.StatusCreated, gin.H{
			"token":      token,
			"expires_at": exp,
			"url":        "/api/v1/shared/" + token,
		})
	}
}

// SharedExport serves the export of the board a share token points at.
func SharedExport(mgr *board.Manager, signer *share.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID, err := signer.Verify(c.Param("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		b, ok := loadBoardByID(c, mgr, boardID)
		if !ok {
			return
		}
		writeExport(c, b)
	}
}
