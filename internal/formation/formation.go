package formation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FieldSize is the number of players per side on the pitch.
type FieldSize string

const (
	FiveASide   FieldSize = "5"
	SevenASide  FieldSize = "7"
	ElevenASide FieldSize = "11"
)

var (
	ErrUnknownFieldSize = errors.New("unknown field size")
	ErrUnknownFormation = errors.New("unknown formation for field size")
)

// FieldSizes returns the supported field sizes, smallest first.
func FieldSizes() []FieldSize {
	return []FieldSize{FiveASide, SevenASide, ElevenASide}
}

// ParseFieldSize validates a field size coming from the outside world.
func ParseFieldSize(s string) (FieldSize, error) {
	switch FieldSize(strings.TrimSpace(s)) {
	case FiveASide:
		return FiveASide, nil
	case SevenASide:
		return SevenASide, nil
	case ElevenASide:
		return ElevenASide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldSize, s)
}

// Coord is a normalized pitch coordinate in percent of width (X) and height (Y).
// X grows towards the opponent goal for the home side.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Slot is one named position in a formation.
type Slot struct {
	Key   string `json:"key"`
	Coord Coord  `json:"coord"`
}

// Category returns the coarse position category of the slot.
func (s Slot) Category() Category {
	return roleOf(s.Key).category
}

// Definition is an immutable formation layout for one field size.
type Definition struct {
	FieldSize FieldSize
	Name      string
	slots     []Slot
}

// Slots returns the slots in canonical order: goalkeeper, then each line from
// defence to attack, left to right within a line.
func (d Definition) Slots() []Slot {
	out := make([]Slot, len(d.slots))
	copy(out, d.slots)
	return out
}

// Lookup returns the coordinate of a slot key.
func (d Definition) Lookup(key string) (Coord, bool) {
	for _, s := range d.slots {
		if s.Key == key {
			return s.Coord, true
		}
	}
	return Coord{}, false
}

// Lines splits the formation name into its outfield line sizes ("4-2-3-1" -> [4 2 3 1]).
func (d Definition) Lines() []int {
	return ParseLines(d.Name)
}

// ParseLines decomposes a formation name into line sizes. Non-numeric groups are skipped.
func ParseLines(name string) []int {
	parts := strings.Split(name, "-")
	lines := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			continue
		}
		lines = append(lines, n)
	}
	return lines
}

// ExpectedSlots is one goalkeeper plus the sum of the line sizes.
func ExpectedSlots(name string) int {
	total := 1
	for _, n := range ParseLines(name) {
		total += n
	}
	return total
}

// Get returns the definition for a (field size, formation) pair.
func Get(size FieldSize, name string) (Definition, error) {
	for _, d := range catalog[size] {
		if d.Name == name {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %s on %s-a-side", ErrUnknownFormation, name, size)
}

// Supported reports whether the pair exists in the catalog.
func Supported(size FieldSize, name string) bool {
	_, err := Get(size, name)
	return err == nil
}

// Slots returns the ordered slots of a formation, or nil for an unsupported pair.
func Slots(size FieldSize, name string) []Slot {
	d, err := Get(size, name)
	if err != nil {
		return nil
	}
	return d.Slots()
}

// ListFormations returns the formation names valid for a field size.
func ListFormations(size FieldSize) []string {
	defs := catalog[size]
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}

// DefaultFormation is the formation applied when a board switches field size.
func DefaultFormation(size FieldSize) string {
	switch size {
	case FiveASide:
		return "3-1"
	case SevenASide:
		return "3-3"
	default:
		return "4-4-2"
	}
}
