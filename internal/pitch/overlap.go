package pitch

import (
	"math/rand/v2"

	"github.com/playmatatu/tactics/internal/formation"
)

const (
	// MinMarkerDistance keeps free-placed markers from covering each other.
	MinMarkerDistance = 40.0
	// PlacementInset is the margin a perturbed marker must keep from the pitch edges.
	PlacementInset = 30.0
	// DragInset is the margin a dragged marker must keep from the pitch edges.
	DragInset = 20.0
	// MaxPlacementAttempts bounds the perturbation loop.
	MaxPlacementAttempts = 10
)

// RandSource yields uniform values in [0, 1).
type RandSource interface {
	Float64() float64
}

// Resolver nudges free-placed markers away from markers already on the pitch.
type Resolver struct {
	Bounds      Bounds
	MinDistance float64
	Attempts    int
	rng         RandSource
}

// NewResolver builds a resolver for a canvas, using the default distance and inset.
// A nil rng falls back to the global math/rand/v2 source.
func NewResolver(width, height float64, rng RandSource) *Resolver {
	if rng == nil {
		rng = globalRand{}
	}
	return &Resolver{
		Bounds:      Inset(width, height, PlacementInset),
		MinDistance: MinMarkerDistance,
		Attempts:    MaxPlacementAttempts,
		rng:         rng,
	}
}

// Place returns candidate unchanged when nothing in occupied is closer than
// MinDistance. Otherwise it tries bounded random perturbations clamped to Bounds and
// returns the first clear one, or the original candidate once attempts run out.
func (r *Resolver) Place(candidate Vec2, occupied []Vec2) Vec2 {
	if clearOf(candidate, occupied, r.MinDistance) {
		return candidate
	}

	for attempt := 0; attempt < r.Attempts; attempt++ {
		offset := Vec2{
			X: (r.rng.Float64() - 0.5) * r.MinDistance,
			Y: (r.rng.Float64() - 0.5) * r.MinDistance,
		}
		next := r.Bounds.Clamp(candidate.Plus(offset))
		if clearOf(next, occupied, r.MinDistance) {
			return next
		}
	}
	return candidate
}

func clearOf(p Vec2, occupied []Vec2, minDistance float64) bool {
	for _, o := range occupied {
		if p.DistanceTo(o) < minDistance {
			return false
		}
	}
	return true
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// seedCoords are the free-placement starting points per category, home orientation.
var seedCoords = map[formation.Category]formation.Coord{
	formation.GK:  {X: 10, Y: 50},
	formation.LB:  {X: 20, Y: 20},
	formation.CB:  {X: 20, Y: 50},
	formation.RB:  {X: 20, Y: 80},
	formation.DMF: {X: 35, Y: 50},
	formation.CMF: {X: 50, Y: 50},
	formation.LWF: {X: 70, Y: 20},
	formation.CF:  {X: 75, Y: 50},
	formation.RWF: {X: 70, Y: 80},
}

// SeedPixels is where a player without a slot is first dropped, by category.
func SeedPixels(category formation.Category, width, height float64, side Side) Vec2 {
	c, ok := seedCoords[category]
	if !ok {
		c = formation.Coord{X: 50, Y: 50}
	}
	return ToPixels(c, width, height, side)
}
