package board

import (
	"bytes"
	"fmt"
	"image/png"
	"maps"

	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/models"
	"github.com/playmatatu/tactics/internal/pitch"
)

// Snapshot captures the board for a store. The drawing is kept as PNG and left out
// while the layer is blank.
func (b *Board) Snapshot() (models.BoardSnapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := models.BoardSnapshot{
		ID:          b.id,
		FieldSize:   b.fieldSize,
		Home:        b.home.Clone(),
		Away:        b.away.Clone(),
		Width:       b.width,
		Height:      b.height,
		DragEnabled: b.drag,
		Drawing:     b.surface.Config(),
		Placed:      maps.Clone(b.placed),
		Manual:      maps.Clone(b.manual),
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}
	if !b.surface.Blank() {
		var buf bytes.Buffer
		if err := b.surface.EncodePNG(&buf); err != nil {
			return models.BoardSnapshot{}, fmt.Errorf("encode drawing: %w", err)
		}
		snap.Raster = buf.Bytes()
	}
	return snap, nil
}

// Restore rebuilds a board from a snapshot.
func Restore(snap models.BoardSnapshot, opts ...Option) (*Board, error) {
	if snap.ID == "" {
		return nil, fmt.Errorf("snapshot has no board id")
	}
	if err := ValidPitch(snap.Width, snap.Height); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	if _, err := formation.ParseFieldSize(string(snap.FieldSize)); err != nil {
		return nil, err
	}
	if snap.Home.ID != pitch.Home || snap.Away.ID != pitch.Away {
		return nil, fmt.Errorf("snapshot %s: teams must be home and away", snap.ID)
	}
	if err := snap.Home.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s home: %w", snap.ID, err)
	}
	if err := snap.Away.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s away: %w", snap.ID, err)
	}

	b := New(snap.ID, snap.Width, snap.Height, opts...)
	b.fieldSize = snap.FieldSize
	b.home = snap.Home.Clone()
	b.away = snap.Away.Clone()
	b.drag = snap.DragEnabled
	if snap.Placed != nil {
		b.placed = maps.Clone(snap.Placed)
	}
	if snap.Manual != nil {
		b.manual = maps.Clone(snap.Manual)
	}
	if !snap.CreatedAt.IsZero() {
		b.createdAt = snap.CreatedAt
	}
	if !snap.UpdatedAt.IsZero() {
		b.updatedAt = snap.UpdatedAt
	}

	if len(snap.Raster) > 0 {
		img, err := png.Decode(bytes.NewReader(snap.Raster))
		if err != nil {
			return nil, fmt.Errorf("decode drawing: %w", err)
		}
		b.surface.Load(img)
		b.surface.Resize(b.width, b.height)
	}
	cfg := snap.Drawing
	if cfg.Mode == "" {
		cfg = drawing.DefaultConfig()
	}
	if err := b.surface.SetConfig(cfg); err != nil {
		return nil, fmt.Errorf("snapshot %s drawing: %w", snap.ID, err)
	}
	return b, nil
}
