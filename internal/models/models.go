package models

import (
	"time"

	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/roster"
)

// BoardSnapshot is the serializable state of one tactics board
type BoardSnapshot struct {
	ID          string              `json:"id"`
	FieldSize   formation.FieldSize `json:"field_size"`
	Home        roster.Team         `json:"home"`
	Away        roster.Team         `json:"away"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	DragEnabled bool                `json:"drag_enabled"`
	Drawing     drawing.Config      `json:"drawing"`
	// Raster is the drawing layer as PNG. Empty when nothing has been drawn.
	Raster []byte `json:"raster,omitempty"`
	// Placed holds free-placement positions, Manual holds dragged positions. Both are
	// percent of the pitch in home orientation, keyed by player ID.
	Placed    map[string]formation.Coord `json:"placed,omitempty"`
	Manual    map[string]formation.Coord `json:"manual,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// BoardSnapshotRow represents a row of the board_snapshots table
type BoardSnapshotRow struct {
	ID        string    `db:"id" json:"id"`
	FieldSize string    `db:"field_size" json:"field_size"`
	Payload   []byte    `db:"payload" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
