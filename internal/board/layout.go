package board

import (
	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/pitch"
	"github.com/playmatatu/tactics/internal/roster"
)

// Marker is where one active player is drawn on the pitch.
type Marker struct {
	PlayerID string             `json:"player_id"`
	Team     pitch.Side         `json:"team"`
	Name     string             `json:"name"`
	Number   int                `json:"number,omitempty"`
	Position formation.Category `json:"position"`
	Color    string             `json:"color"`
	Image    string             `json:"image,omitempty"`
	SlotKey  string             `json:"slot_key,omitempty"`
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	// Source is slot, free or manual.
	Source string `json:"source"`
}

const (
	SourceSlot   = "slot"
	SourceFree   = "free"
	SourceManual = "manual"
)

// Layout returns the markers of every active player, home team first.
func (b *Board) Layout() []Marker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.layoutLocked()
}

// layoutLocked positions slot-bound players from the catalog, then seeds players with
// no slot through the overlap resolver. A free position is resolved once and kept in
// percent, so repeated layouts stay identical. Dragged positions override both.
func (b *Board) layoutLocked() []Marker {
	w, h := float64(b.width), float64(b.height)
	markers := make([]Marker, 0, len(b.home.Players)+len(b.away.Players))
	var pending []int
	occupied := make([]pitch.Vec2, 0, cap(markers))

	for _, t := range []*roster.Team{&b.home, &b.away} {
		for _, p := range t.Players {
			if p.IsSubstitute {
				continue
			}
			m := Marker{
				PlayerID: p.ID,
				Team:     t.ID,
				Name:     p.Name,
				Number:   p.Number,
				Position: p.Position,
				Color:    p.Color,
				Image:    p.Image,
				SlotKey:  p.SlotKey,
			}
			switch {
			case p.SlotKey != "":
				pos, _ := pitch.SlotPixels(b.fieldSize, t.Formation, p.SlotKey, w, h, t.ID)
				m.X, m.Y, m.Source = pos.X, pos.Y, SourceSlot
				occupied = append(occupied, pos)
			default:
				if c, ok := b.placed[posKey(t.ID, p.ID)]; ok {
					pos := pitch.ToPixels(c, w, h, pitch.Home)
					m.X, m.Y, m.Source = pos.X, pos.Y, SourceFree
					occupied = append(occupied, pos)
				} else {
					pending = append(pending, len(markers))
				}
			}
			markers = append(markers, m)
		}
	}

	if len(pending) > 0 {
		resolver := pitch.NewResolver(w, h, b.rng)
		for _, i := range pending {
			m := &markers[i]
			pos := resolver.Place(pitch.SeedPixels(m.Position, w, h, m.Team), occupied)
			key := posKey(m.Team, m.PlayerID)
			b.placed[key] = pitch.ToPercent(pos, w, h)
			pos = pitch.ToPixels(b.placed[key], w, h, pitch.Home)
			m.X, m.Y, m.Source = pos.X, pos.Y, SourceFree
			occupied = append(occupied, pos)
		}
	}

	for i := range markers {
		if c, ok := b.manual[posKey(markers[i].Team, markers[i].PlayerID)]; ok {
			pos := pitch.ToPixels(c, w, h, pitch.Home)
			markers[i].X, markers[i].Y, markers[i].Source = pos.X, pos.Y, SourceManual
		}
	}
	return markers
}
