package pitch

import (
	"fmt"

	"github.com/playmatatu/tactics/internal/formation"
)

// Side tells which half a team defends. Home keeps its goal on the left.
type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

// ParseSide validates a side coming from a route or message.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Home, Away:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// ToPixels maps a normalized slot coordinate onto a canvas. Away coordinates are
// mirrored horizontally so the away goal sits on the right.
func ToPixels(c formation.Coord, width, height float64, side Side) Vec2 {
	x := c.X / 100 * width
	y := c.Y / 100 * height
	if side == Away {
		x = width - x
	}
	return Vec2{X: x, Y: y}
}

// ToPercent is the inverse of ToPixels for the home orientation.
func ToPercent(v Vec2, width, height float64) formation.Coord {
	if width <= 0 || height <= 0 {
		return formation.Coord{X: 50, Y: 50}
	}
	return formation.Coord{X: v.X / width * 100, Y: v.Y / height * 100}
}

// Center is the fallback position for anything the catalog cannot place.
func Center(width, height float64) Vec2 {
	return Vec2{X: width / 2, Y: height / 2}
}

// SlotPixels resolves a slot of a formation to canvas pixels. A slot key or
// formation missing from the catalog lands on the pitch centre.
func SlotPixels(size formation.FieldSize, formationName, slotKey string, width, height float64, side Side) (Vec2, bool) {
	def, err := formation.Get(size, formationName)
	if err != nil {
		return Center(width, height), false
	}
	c, ok := def.Lookup(slotKey)
	if !ok {
		return Center(width, height), false
	}
	return ToPixels(c, width, height, side), true
}
