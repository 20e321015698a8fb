package board

import (
	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/roster"
)

// EventType names what changed on a board.
type EventType string

const (
	EventRoster         EventType = "roster"
	EventLayout         EventType = "layout"
	EventSettings       EventType = "settings"
	EventDrawing        EventType = "drawing"
	EventDrawingCleared EventType = "drawing_cleared"
)

// Event is delivered to subscribers after every mutation.
type Event struct {
	Type    EventType `json:"type"`
	BoardID string    `json:"board_id"`
	Data    any       `json:"data,omitempty"`
}

// RosterUpdate is the payload of EventRoster.
type RosterUpdate struct {
	FieldSize formation.FieldSize `json:"field_size"`
	Home      roster.Team         `json:"home"`
	Away      roster.Team         `json:"away"`
}

// Settings is the payload of EventSettings.
type Settings struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	DragEnabled bool           `json:"drag_enabled"`
	Drawing     drawing.Config `json:"drawing"`
}

// Stroke is the payload of EventDrawing: the pointer sample that was applied and the
// tool it was applied with, so other viewers can replay it.
type Stroke struct {
	Config  drawing.Config       `json:"config"`
	Pointer drawing.PointerEvent `json:"pointer"`
}

// Subscribe registers fn for every event of this board. The returned function
// removes the subscription. fn runs on the mutating goroutine and must not block.
func (b *Board) Subscribe(fn func(Event)) (cancel func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
