// Package board is the tactics board aggregate: two teams on one pitch, the layout
// derived from them and the drawing layer above it.
//
// Every mutation runs under the board mutex. Subscribers are notified after the lock
// is released.
package board

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/pitch"
	"github.com/playmatatu/tactics/internal/roster"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrInvalidPitch  = fmt.Errorf("pitch size must be between 1 and %d pixels", MaxPitchSize)
	ErrDragDisabled  = errors.New("marker dragging is disabled")
	ErrNotOnPitch    = errors.New("player is not on the pitch")
)

const (
	DefaultWidth  = 500
	DefaultHeight = 500
	// MaxPitchSize bounds each pitch dimension; the drawing raster is width*height*4 bytes.
	MaxPitchSize = 4096

	HomeColor = "#2563eb"
	AwayColor = "#dc2626"
	HomeName  = "Đội nhà"
	AwayName  = "Đội khách"
)

// Option customizes a new board.
type Option func(*Board)

// WithRand sets the random source used by free placement.
func WithRand(rng pitch.RandSource) Option {
	return func(b *Board) { b.rng = rng }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// Board is safe for concurrent use.
type Board struct {
	mu sync.Mutex

	id        string
	fieldSize formation.FieldSize
	home      roster.Team
	away      roster.Team
	width     int
	height    int
	drag      bool
	surface   *drawing.Surface

	// placed and manual are percent positions in home orientation, keyed by posKey.
	placed map[string]formation.Coord
	manual map[string]formation.Coord

	rng       pitch.RandSource
	now       func() time.Time
	createdAt time.Time
	updatedAt time.Time

	subs    map[int]func(Event)
	nextSub int
}

// ValidPitch reports ErrInvalidPitch unless both dimensions are in 1..MaxPitchSize.
func ValidPitch(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxPitchSize || height > MaxPitchSize {
		return ErrInvalidPitch
	}
	return nil
}

// posKey identifies a player board-wide; player IDs are only unique within a team.
func posKey(side pitch.Side, playerID string) string {
	return string(side) + "/" + playerID
}

// New creates a board with both teams lined up in the default 11-a-side formation.
// Sizes rejected by ValidPitch fall back to DefaultWidth x DefaultHeight.
func New(id string, width, height int, opts ...Option) *Board {
	if ValidPitch(width, height) != nil {
		width, height = DefaultWidth, DefaultHeight
	}
	b := &Board{
		id:        id,
		fieldSize: formation.ElevenASide,
		width:     width,
		height:    height,
		surface:   drawing.NewSurface(width, height),
		placed:    make(map[string]formation.Coord),
		manual:    make(map[string]formation.Coord),
		now:       time.Now,
		subs:      make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(b)
	}

	name := formation.DefaultFormation(b.fieldSize)
	b.home = roster.Team{ID: pitch.Home, Name: HomeName, Color: HomeColor, Formation: name}
	b.away = roster.Team{ID: pitch.Away, Name: AwayName, Color: AwayColor, Formation: name}
	for _, t := range []*roster.Team{&b.home, &b.away} {
		players, err := roster.Assign(name, b.fieldSize, t.Color, t.ID)
		if err != nil {
			// The default formation is always in the catalog.
			panic(err)
		}
		t.Players = players
		t.Substitutions = []roster.Substitution{}
	}

	b.createdAt = b.now().UTC()
	b.updatedAt = b.createdAt
	return b
}

// ID returns the board identifier.
func (b *Board) ID() string { return b.id }

// UpdatedAt is the time of the last mutation.
func (b *Board) UpdatedAt() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updatedAt
}

// State is a read-only view of the board for API responses.
type State struct {
	ID          string              `json:"id"`
	FieldSize   formation.FieldSize `json:"field_size"`
	Formations  []string            `json:"formations"`
	Home        roster.Team         `json:"home"`
	Away        roster.Team         `json:"away"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	DragEnabled bool                `json:"drag_enabled"`
	Drawing     drawing.Config      `json:"drawing"`
	Markers     []Marker            `json:"markers"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// State returns a deep copy of the board with the current layout.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		ID:          b.id,
		FieldSize:   b.fieldSize,
		Formations:  formation.ListFormations(b.fieldSize),
		Home:        b.home.Clone(),
		Away:        b.away.Clone(),
		Width:       b.width,
		Height:      b.height,
		DragEnabled: b.drag,
		Drawing:     b.surface.Config(),
		Markers:     b.layoutLocked(),
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	}
}

// Team returns a copy of one side's team.
func (b *Board) Team(side pitch.Side) (roster.Team, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, err := b.team(side)
	if err != nil {
		return roster.Team{}, err
	}
	return t.Clone(), nil
}

// FieldSize returns the board-wide field size.
func (b *Board) FieldSize() formation.FieldSize {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fieldSize
}

// Size returns the pitch size in pixels.
func (b *Board) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *Board) team(side pitch.Side) (*roster.Team, error) {
	switch side {
	case pitch.Home:
		return &b.home, nil
	case pitch.Away:
		return &b.away, nil
	}
	return nil, fmt.Errorf("unknown side %q", side)
}

// mutate runs fn under the lock, stamps the board and then delivers the events fn
// returned to every subscriber.
func (b *Board) mutate(fn func() ([]Event, error)) error {
	b.mu.Lock()
	events, err := fn()
	if err != nil || len(events) == 0 {
		b.mu.Unlock()
		return err
	}
	b.updatedAt = b.now().UTC()
	subs := make([]func(Event), 0, len(b.subs))
	for i := 0; i < b.nextSub; i++ {
		if sub, ok := b.subs[i]; ok {
			subs = append(subs, sub)
		}
	}
	b.mu.Unlock()

	for _, ev := range events {
		ev.BoardID = b.id
		for _, sub := range subs {
			sub(ev)
		}
	}
	return nil
}

// rosterEvents reports a roster change together with the layout it produces.
func (b *Board) rosterEvents() []Event {
	return []Event{
		{Type: EventRoster, Data: RosterUpdate{FieldSize: b.fieldSize, Home: b.home.Clone(), Away: b.away.Clone()}},
		{Type: EventLayout, Data: b.layoutLocked()},
	}
}

// forgetStarters drops stored positions of a team's current starters.
func (b *Board) forgetStarters(t *roster.Team) {
	for _, p := range t.Starters() {
		delete(b.placed, posKey(t.ID, p.ID))
		delete(b.manual, posKey(t.ID, p.ID))
	}
}

// SetFormation lines a team up in a new formation. Starters are regenerated and the
// bench is kept.
func (b *Board) SetFormation(side pitch.Side, name string) error {
	return b.mutate(func() ([]Event, error) {
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if !formation.Supported(b.fieldSize, name) {
			return nil, fmt.Errorf("%w: %s for %s-a-side", formation.ErrUnknownFormation, name, b.fieldSize)
		}
		next, err := roster.Regenerate(*t, name, b.fieldSize)
		if err != nil {
			return nil, err
		}
		b.forgetStarters(t)
		*t = next
		return b.rosterEvents(), nil
	})
}

// SetFieldSize switches both teams to the default formation of the new size.
func (b *Board) SetFieldSize(size formation.FieldSize) error {
	return b.mutate(func() ([]Event, error) {
		if _, err := formation.ParseFieldSize(string(size)); err != nil {
			return nil, err
		}
		name := formation.DefaultFormation(size)
		home, err := roster.Regenerate(b.home, name, size)
		if err != nil {
			return nil, err
		}
		away, err := roster.Regenerate(b.away, name, size)
		if err != nil {
			return nil, err
		}
		b.forgetStarters(&b.home)
		b.forgetStarters(&b.away)
		b.fieldSize = size
		b.home, b.away = home, away
		return b.rosterEvents(), nil
	})
}

// AddPlayer adds a player to one side. A missing ID is generated.
func (b *Board) AddPlayer(side pitch.Side, p roster.Player) (roster.Player, error) {
	var added roster.Player
	err := b.mutate(func() ([]Event, error) {
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("%s-%s", side, uuid.NewString())
		}
		added, err = t.AddPlayer(p)
		if err != nil {
			return nil, err
		}
		return b.rosterEvents(), nil
	})
	return added, err
}

// UpdatePlayer edits a player in place.
func (b *Board) UpdatePlayer(side pitch.Side, p roster.Player) error {
	return b.mutate(func() ([]Event, error) {
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if i := t.Find(p.ID); i >= 0 && t.Players[i].SlotKey != p.SlotKey {
			delete(b.placed, posKey(side, p.ID))
		}
		if err := t.UpdatePlayer(p); err != nil {
			return nil, err
		}
		return b.rosterEvents(), nil
	})
}

// RemovePlayer drops a player and its stored positions.
func (b *Board) RemovePlayer(side pitch.Side, playerID string) error {
	return b.mutate(func() ([]Event, error) {
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if err := t.RemovePlayer(playerID); err != nil {
			return nil, err
		}
		delete(b.placed, posKey(side, playerID))
		delete(b.manual, posKey(side, playerID))
		return b.rosterEvents(), nil
	})
}

// ClearPlayers empties both rosters and their substitution histories and turns the
// drawing tool off.
func (b *Board) ClearPlayers() {
	_ = b.mutate(func() ([]Event, error) {
		b.home.Clear()
		b.away.Clear()
		clear(b.placed)
		clear(b.manual)
		cfg := b.surface.Config()
		cfg.Mode = drawing.ModeNone
		_ = b.surface.SetConfig(cfg)
		return append(b.rosterEvents(), b.settingsEvent()), nil
	})
}

// Substitute records a substitution on one side.
func (b *Board) Substitute(side pitch.Side, sub roster.Substitution) (roster.Substitution, error) {
	var recorded roster.Substitution
	err := b.mutate(func() ([]Event, error) {
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if sub.ID == "" {
			sub.ID = "sub-" + uuid.NewString()
		}
		recorded, err = t.Substitute(sub)
		if err != nil {
			return nil, err
		}
		return b.rosterEvents(), nil
	})
	return recorded, err
}

// RemoveSubstitution undoes a recorded substitution.
func (b *Board) RemoveSubstitution(side pitch.Side, subID string) error {
	return b.mutate(func() ([]Event, error) {
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if err := t.RemoveSubstitution(subID); err != nil {
			return nil, err
		}
		return b.rosterEvents(), nil
	})
}

// SetDrawing switches the drawing tool. Picking pencil or eraser turns dragging off.
func (b *Board) SetDrawing(cfg drawing.Config) (drawing.Config, error) {
	var applied drawing.Config
	err := b.mutate(func() ([]Event, error) {
		if err := b.surface.SetConfig(cfg); err != nil {
			return nil, err
		}
		applied = b.surface.Config()
		if applied.Mode != drawing.ModeNone {
			b.drag = false
		}
		return []Event{b.settingsEvent()}, nil
	})
	return applied, err
}

// SetDragEnabled toggles marker dragging. Enabling it turns the drawing tool off.
func (b *Board) SetDragEnabled(enabled bool) {
	_ = b.mutate(func() ([]Event, error) {
		b.drag = enabled
		if enabled {
			cfg := b.surface.Config()
			cfg.Mode = drawing.ModeNone
			_ = b.surface.SetConfig(cfg)
		}
		return []Event{b.settingsEvent()}, nil
	})
}

func (b *Board) settingsEvent() Event {
	return Event{Type: EventSettings, Data: Settings{
		Width:       b.width,
		Height:      b.height,
		DragEnabled: b.drag,
		Drawing:     b.surface.Config(),
	}}
}

// Pointer feeds one pointer event to the drawing surface and reports whether the
// raster changed.
func (b *Board) Pointer(ev drawing.PointerEvent) bool {
	var changed bool
	_ = b.mutate(func() ([]Event, error) {
		before := b.surface.Drawing()
		changed = b.surface.Handle(ev)
		if !changed && !(before && !b.surface.Drawing()) {
			return nil, nil
		}
		return []Event{{Type: EventDrawing, Data: Stroke{Config: b.surface.Config(), Pointer: ev}}}, nil
	})
	return changed
}

// ClearDrawing wipes the drawing layer.
func (b *Board) ClearDrawing() {
	_ = b.mutate(func() ([]Event, error) {
		b.surface.Clear()
		return []Event{{Type: EventDrawingCleared}}, nil
	})
}

// DrawingImage returns a copy of the drawing raster.
func (b *Board) DrawingImage() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Image()
}

// EncodeDrawing writes the drawing raster as PNG.
func (b *Board) EncodeDrawing(w io.Writer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.EncodePNG(w)
}

// Resize sets the pitch size. The drawing keeps the pixels that still fit; layout
// positions follow from percentages and need no migration.
func (b *Board) Resize(width, height int) error {
	if err := ValidPitch(width, height); err != nil {
		return err
	}
	return b.mutate(func() ([]Event, error) {
		if width == b.width && height == b.height {
			return nil, nil
		}
		b.width, b.height = width, height
		b.surface.Resize(width, height)
		return []Event{b.settingsEvent(), {Type: EventLayout, Data: b.layoutLocked()}}, nil
	})
}

// MoveMarker drags an active player's marker to x, y, kept DragInset pixels inside
// the pitch.
func (b *Board) MoveMarker(side pitch.Side, playerID string, x, y float64) (Marker, error) {
	var moved Marker
	err := b.mutate(func() ([]Event, error) {
		if !b.drag || b.surface.Config().Mode != drawing.ModeNone {
			return nil, ErrDragDisabled
		}
		t, err := b.team(side)
		if err != nil {
			return nil, err
		}
		if i := t.Find(playerID); i < 0 || t.Players[i].IsSubstitute {
			return nil, fmt.Errorf("%w: %s %s", ErrNotOnPitch, side, playerID)
		}
		w, h := float64(b.width), float64(b.height)
		pos := pitch.Inset(w, h, pitch.DragInset).Clamp(pitch.Vec2{X: x, Y: y})
		b.manual[posKey(side, playerID)] = pitch.ToPercent(pos, w, h)

		markers := b.layoutLocked()
		for _, m := range markers {
			if m.Team == side && m.PlayerID == playerID {
				moved = m
			}
		}
		return []Event{{Type: EventLayout, Data: markers}}, nil
	})
	return moved, err
}
