package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/pitch"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrDuplicatePlayer     = errors.New("player id already on team")
	ErrSlotTaken           = errors.New("slot already held by an active player")
	ErrInvalidSubstitution = errors.New("invalid substitution")
	ErrSubstitutionUnknown = errors.New("substitution not found")
)

// DefaultPlayerName is used for players added without a name.
const DefaultPlayerName = "Cầu thủ mới"

// Player is one roster member.
type Player struct {
	ID           string             `json:"id"`
	Position     formation.Category `json:"position"`
	Name         string             `json:"name"`
	Color        string             `json:"color"`
	Image        string             `json:"image,omitempty"`
	Number       int                `json:"number,omitempty"`
	SlotKey      string             `json:"slot_key,omitempty"`
	IsSubstitute bool               `json:"is_substitute"`
}

// Substitution records one player swap during a match.
type Substitution struct {
	ID          string `json:"id"`
	PlayerInID  string `json:"player_in_id"`
	PlayerOutID string `json:"player_out_id"`
	Minute      int    `json:"minute"`
	Reason      string `json:"reason,omitempty"`
	// InSlotKey is the slot the incoming player held before coming on.
	InSlotKey string `json:"in_slot_key,omitempty"`
}

// Team owns its players. The order of Players is the display order.
type Team struct {
	ID            pitch.Side     `json:"id"`
	Name          string         `json:"name"`
	Color         string         `json:"color"`
	Formation     string         `json:"formation"`
	Players       []Player       `json:"players"`
	Substitutions []Substitution `json:"substitutions"`
}

// Starters returns the active players in roster order.
func (t *Team) Starters() []Player {
	out := make([]Player, 0, len(t.Players))
	for _, p := range t.Players {
		if !p.IsSubstitute {
			out = append(out, p)
		}
	}
	return out
}

// Substitutes returns the bench in roster order.
func (t *Team) Substitutes() []Player {
	out := make([]Player, 0)
	for _, p := range t.Players {
		if p.IsSubstitute {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the index of a player, or -1.
func (t *Team) Find(id string) int {
	for i, p := range t.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks that no two active players hold the same slot key.
func (t *Team) Validate() error {
	held := make(map[string]string, len(t.Players))
	for _, p := range t.Players {
		if p.IsSubstitute || p.SlotKey == "" {
			continue
		}
		if other, ok := held[p.SlotKey]; ok {
			return fmt.Errorf("%w: %s held by %s and %s", ErrSlotTaken, p.SlotKey, other, p.ID)
		}
		held[p.SlotKey] = p.ID
	}
	return nil
}

// Clone deep-copies the team so callers can hand it out safely.
func (t *Team) Clone() Team {
	c := *t
	c.Players = append([]Player(nil), t.Players...)
	c.Substitutions = append([]Substitution(nil), t.Substitutions...)
	if c.Players == nil {
		c.Players = []Player{}
	}
	if c.Substitutions == nil {
		c.Substitutions = []Substitution{}
	}
	return c
}

// slotHolder returns the active player holding key, ignoring the player with id skip.
func (t *Team) slotHolder(key, skip string) (string, bool) {
	if key == "" {
		return "", false
	}
	for _, p := range t.Players {
		if p.ID != skip && !p.IsSubstitute && p.SlotKey == key {
			return p.ID, true
		}
	}
	return "", false
}

// AddPlayer appends a player, filling defaults the way the add form does.
func (t *Team) AddPlayer(p Player) (Player, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return Player{}, errors.New("player id required")
	}
	if t.Find(p.ID) >= 0 {
		return Player{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
	}
	if !p.IsSubstitute {
		if holder, ok := t.slotHolder(p.SlotKey, p.ID); ok {
			return Player{}, fmt.Errorf("%w: %s held by %s", ErrSlotTaken, p.SlotKey, holder)
		}
	}
	if p.Name == "" {
		p.Name = DefaultPlayerName
	}
	if p.Position == "" {
		p.Position = formation.GK
	}
	if p.Color == "" {
		p.Color = t.Color
	}
	if p.Number == 0 {
		p.Number = len(t.Players) + 1
	}
	t.Players = append(t.Players, p)
	return p, nil
}

// UpdatePlayer replaces the player with the same id in place.
func (t *Team) UpdatePlayer(p Player) error {
	i := t.Find(p.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, p.ID)
	}
	if !p.IsSubstitute {
		if holder, ok := t.slotHolder(p.SlotKey, p.ID); ok {
			return fmt.Errorf("%w: %s held by %s", ErrSlotTaken, p.SlotKey, holder)
		}
	}
	if p.Position == "" {
		p.Position = t.Players[i].Position
	}
	t.Players[i] = p
	return nil
}

// RemovePlayer drops a player from the roster.
func (t *Team) RemovePlayer(id string) error {
	i := t.Find(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	t.Players = append(t.Players[:i], t.Players[i+1:]...)
	return nil
}

// Clear empties the roster and the substitution history.
func (t *Team) Clear() {
	t.Players = []Player{}
	t.Substitutions = []Substitution{}
}
