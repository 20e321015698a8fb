package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/roster"
)

// playerRequest carries optional player fields. On update, nil fields keep their value.
type playerRequest struct {
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	Position     *string `json:"position"`
	Color        *string `json:"color"`
	Image        *string `json:"image"`
	Number       *int    `json:"number"`
	SlotKey      *string `json:"slot_key"`
	IsSubstitute *bool   `json:"is_substitute"`
}

// apply overlays the request on p.
func (r playerRequest) apply(p roster.Player) (roster.Player, string) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Position != nil {
		cat, ok := formation.ParseCategory(*r.Position)
		if !ok {
			return p, "unknown position " + *r.Position
		}
		p.Position = cat
	}
	if r.Color != nil {
		p.Color = *r.Color
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
	if r.Number != nil {
		if *r.Number < 0 {
			return p, "number must not be negative"
		}
		p.Number = *r.Number
	}
	if r.SlotKey != nil {
		p.SlotKey = *r.SlotKey
	}
	if r.IsSubstitute != nil {
		p.IsSubstitute = *r.IsSubstitute
	}
	return p, ""
}

// AddPlayer adds a player to a team. Missing fields get the add-form defaults.
func AddPlayer(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, ok := sideParam(c)
		if !ok {
			return
		}
		var req playerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player"})
			return
		}
		p, msg := req.apply(roster.Player{ID: req.ID})
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		added, err := b.AddPlayer(side, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, added)
	}
}

// UpdatePlayer edits the fields present in the body.
func UpdatePlayer(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, ok := sideParam(c)
		if !ok {
			return
		}
		var req playerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		team, err := b.Team(side)
		if err != nil {
			respondError(c, err)
			return
		}
		i := team.Find(c.Param("playerId"))
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": roster.ErrPlayerNotFound.Error()})
			return
		}
		p, msg := req.apply(team.Players[i])
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		if err := b.UpdatePlayer(side, p); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// RemovePlayer drops a player from a team.
func RemovePlayer(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, ok := sideParam(c)
		if !ok {
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		if err := b.RemovePlayer(side, c.Param("playerId")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "removed"})
	}
}

// ClearPlayers empties both rosters.
func ClearPlayers(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		b.ClearPlayers()
		c.JSON(http.StatusOK, b.State())
	}
}

// Substitute records a substitution.
func Substitute(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, ok := sideParam(c)
		if !ok {
			return
		}
		var req struct {
			PlayerOutID string `json:"player_out_id" binding:"required"`
			PlayerInID  string `json:"player_in_id" binding:"required"`
			Minute      int    `json:"minute"`
			Reason      string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_out_id and player_in_id required"})
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		sub, err := b.Substitute(side, roster.Substitution{
			PlayerOutID: req.PlayerOutID,
			PlayerInID:  req.PlayerInID,
			Minute:      req.Minute,
			Reason:      req.Reason,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sub)
	}
}

// RemoveSubstitution reverts a recorded substitution.
func RemoveSubstitution(mgr *board.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, ok := sideParam(c)
		if !ok {
			return
		}
		b, ok := loadBoard(c, mgr)
		if !ok {
			return
		}
		if err := b.RemoveSubstitution(side, c.Param("subId")); err != nil {
			respondError(c, err)
			return
		}
		team, _ := b.Team(side)
		c.JSON(http.StatusOK, team)
	}
}
