package pitch

import "math"

// Vec2 is a pixel position on the pitch canvas. Y grows downwards.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceTo is the Euclidean distance between two points.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Minus(o).Magnitude()
}

// IsFinite rejects NaN and infinities coming from client input.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Bounds is an axis-aligned rectangle, inclusive on both ends.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Inset returns the interior of a width x height canvas shrunk by margin on every edge.
func Inset(width, height, margin float64) Bounds {
	b := Bounds{MinX: margin, MinY: margin, MaxX: width - margin, MaxY: height - margin}
	// A canvas smaller than twice the margin collapses onto its centre line.
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = width/2, width/2
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = height/2, height/2
	}
	return b
}

// Clamp pulls a point inside the bounds.
func (b Bounds) Clamp(v Vec2) Vec2 {
	return Vec2{
		X: math.Max(b.MinX, math.Min(b.MaxX, v.X)),
		Y: math.Max(b.MinY, math.Min(b.MaxY, v.Y)),
	}
}

// Contains reports whether the point lies inside the bounds.
func (b Bounds) Contains(v Vec2) bool {
	return v.X >= b.MinX && v.X <= b.MaxX && v.Y >= b.MinY && v.Y <= b.MaxY
}
