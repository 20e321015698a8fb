package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/pitch"
	"github.com/playmatatu/tactics/internal/roster"
)

// loadBoard fetches the board named by the :id route parameter, answering 404 or 500
// itself when it cannot.
func loadBoard(c *gin.Context, mgr *board.Manager) (*board.Board, bool) {
	return loadBoardByID(c, mgr, c.Param("id"))
}

func loadBoardByID(c *gin.Context, mgr *board.Manager, id string) (*board.Board, bool) {
	b, err := mgr.Get(c.Request.Context(), id)
	if errors.Is(err, board.ErrBoardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("[BOARD] load board %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return b, true
}

func sideParam(c *gin.Context) (pitch.Side, bool) {
	side, err := pitch.ParseSide(c.Param("side"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be home or away"})
		return "", false
	}
	return side, true
}

// respondError maps a rejected board mutation to a status code. Mutations only fail
// on input, so anything unrecognised is a bad request.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, board.ErrBoardNotFound),
		errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, roster.ErrSubstitutionUnknown):
		status = http.StatusNotFound
	case errors.Is(err, roster.ErrDuplicatePlayer),
		errors.Is(err, roster.ErrSlotTaken),
		errors.Is(err, board.ErrDragDisabled):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
