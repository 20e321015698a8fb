// Package drawing holds the freehand annotation layer drawn over the pitch.
//
// Strokes exist only as pixels: there is no per-stroke history, so the only way back is
// a full Clear. A surface that has not been mounted (zero size) ignores every call.
package drawing

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// Mode selects what a pointer drag does.
type Mode string

const (
	ModeNone   Mode = "none"
	ModePencil Mode = "pencil"
	ModeEraser Mode = "eraser"
)

const (
	MinWidth     = 1
	MaxWidth     = 20
	DefaultWidth = 3
	DefaultColor = "#ffff00"

	// EraserScale widens eraser segments relative to the configured width.
	EraserScale = 3
)

var (
	ErrUnknownMode = errors.New("unknown drawing mode")
	ErrUnmounted   = errors.New("drawing surface not mounted")
)

// ParseMode accepts none, pencil and eraser. An empty string means none.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeNone:
		return ModeNone, nil
	case ModePencil, ModeEraser:
		return Mode(s), nil
	}
	return ModeNone, ErrUnknownMode
}

// Config is the tool state picked in the drawing toolbar.
type Config struct {
	Mode  Mode    `json:"mode"`
	Width float64 `json:"stroke_width"`
	Color string  `json:"stroke_color"`
}

// DefaultConfig is drawing off, 3 px yellow.
func DefaultConfig() Config {
	return Config{Mode: ModeNone, Width: DefaultWidth, Color: DefaultColor}
}

// Normalize validates the mode and color and clamps the width into [MinWidth, MaxWidth].
// Empty fields fall back to the defaults.
func (c Config) Normalize() (Config, error) {
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return Config{}, err
	}
	c.Mode = mode
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if _, err := ParseHexColor(c.Color); err != nil {
		return Config{}, err
	}
	switch {
	case c.Width == 0 || math.IsNaN(c.Width):
		c.Width = DefaultWidth
	case c.Width < MinWidth:
		c.Width = MinWidth
	case c.Width > MaxWidth:
		c.Width = MaxWidth
	}
	return c, nil
}

// Phase is the pointer event kind.
type Phase string

const (
	PhaseDown  Phase = "down"
	PhaseMove  Phase = "move"
	PhaseUp    Phase = "up"
	PhaseLeave Phase = "leave"
)

// PointerEvent is one sampled pointer position in surface pixels.
type PointerEvent struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Phase Phase   `json:"phase"`
}

type point struct{ x, y float64 }

// Surface is a transparent RGBA raster that strokes are burned into.
type Surface struct {
	img    *image.RGBA
	cfg    Config
	active bool
	last   point
}

// NewSurface returns a mounted surface of w by h pixels. Non-positive sizes give an
// unmounted surface.
func NewSurface(w, h int) *Surface {
	s := &Surface{cfg: DefaultConfig()}
	if w > 0 && h > 0 {
		s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return s
}

// Mounted reports whether the surface has a raster to draw into.
func (s *Surface) Mounted() bool {
	return s != nil && s.img != nil
}

// Size returns the raster dimensions, 0x0 when unmounted.
func (s *Surface) Size() (int, int) {
	if !s.Mounted() {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Config returns the current tool state.
func (s *Surface) Config() Config {
	if s == nil {
		return DefaultConfig()
	}
	if s.cfg.Mode == "" {
		return DefaultConfig()
	}
	return s.cfg
}

// SetConfig switches tools. Any stroke in progress ends.
func (s *Surface) SetConfig(c Config) error {
	if s == nil {
		return nil
	}
	c, err := c.Normalize()
	if err != nil {
		return err
	}
	s.cfg = c
	s.active = false
	return nil
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool {
	return s != nil && s.active
}

// Handle dispatches a pointer event and reports whether any pixel may have changed.
func (s *Surface) Handle(ev PointerEvent) bool {
	switch ev.Phase {
	case PhaseDown:
		return s.PointerDown(ev.X, ev.Y)
	case PhaseMove:
		return s.PointerMove(ev.X, ev.Y)
	case PhaseUp:
		s.PointerUp()
	case PhaseLeave:
		s.PointerLeave()
	}
	return false
}

// PointerDown starts a stroke and stamps a dot, so a tap leaves a mark. Pencil dots
// have radius width/2. Eraser dots are EraserScale times wider plus one pixel, enough
// to lift the antialiased rim of a pencil dot of the same width.
func (s *Surface) PointerDown(x, y float64) bool {
	if !s.Mounted() || s.Config().Mode == ModeNone || !finite(x, y) {
		return false
	}
	s.active = true
	s.last = point{x, y}
	radius := s.Config().Width / 2
	if s.Config().Mode == ModeEraser {
		radius = radius*EraserScale + 1
	}
	s.apply(s.last, s.last, radius)
	return true
}

// PointerMove extends the active stroke with a round-capped segment from the previous
// sample. Eraser segments are EraserScale times wider than the configured width.
func (s *Surface) PointerMove(x, y float64) bool {
	if !s.Mounted() || !s.active || s.Config().Mode == ModeNone || !finite(x, y) {
		return false
	}
	width := s.Config().Width
	if s.Config().Mode == ModeEraser {
		width *= EraserScale
	}
	next := point{x, y}
	s.apply(s.last, next, width/2)
	s.last = next
	return true
}

// PointerUp ends the stroke.
func (s *Surface) PointerUp() {
	if s != nil {
		s.active = false
	}
}

// PointerLeave ends the stroke the same way PointerUp does.
func (s *Surface) PointerLeave() {
	s.PointerUp()
}

// Clear wipes every pixel to transparent.
func (s *Surface) Clear() {
	if !s.Mounted() {
		return
	}
	clear(s.img.Pix)
	s.active = false
}

// Blank reports whether no pixel holds any pigment.
func (s *Surface) Blank() bool {
	if !s.Mounted() {
		return true
	}
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Resize reallocates the raster, keeping the pixels that still fit. Resizing to a
// non-positive size unmounts the surface.
func (s *Surface) Resize(w, h int) {
	if s == nil {
		return
	}
	s.active = false
	if w <= 0 || h <= 0 {
		s.img = nil
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, w, h))
	if s.img != nil {
		draw.Draw(next, next.Bounds(), s.img, image.Point{}, draw.Src)
	}
	s.img = next
}

// Image returns a copy of the raster. Unmounted surfaces return an empty image.
func (s *Surface) Image() *image.RGBA {
	if !s.Mounted() {
		return image.NewRGBA(image.Rectangle{})
	}
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// EncodePNG writes the raster as a PNG with an alpha channel.
func (s *Surface) EncodePNG(w io.Writer) error {
	if !s.Mounted() {
		return ErrUnmounted
	}
	return png.Encode(w, s.img)
}

// Load replaces the raster with a copy of img. An empty image unmounts the surface.
func (s *Surface) Load(img image.Image) {
	if s == nil || img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		s.img = nil
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(s.img, s.img.Bounds(), img, b.Min, draw.Src)
	s.active = false
}

// apply burns a capsule of the given radius between a and b into the raster using the
// current tool.
func (s *Surface) apply(a, b point, radius float64) {
	mask, r := capsule(a, b, radius, s.img.Bounds())
	if mask == nil {
		return
	}
	cfg := s.Config()
	if cfg.Mode == ModeEraser {
		erase(s.img, r, mask)
		return
	}
	c, err := ParseHexColor(cfg.Color)
	if err != nil {
		return
	}
	draw.DrawMask(s.img, r, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// erase scales every destination pixel by the inverse of the mask coverage.
func erase(dst *image.RGBA, r image.Rectangle, mask *image.Alpha) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(mask.AlphaAt(x-r.Min.X, y-r.Min.Y).A)
			if m == 0 {
				continue
			}
			keep := 0xff - m
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			for k := range px {
				px[k] = uint8(uint32(px[k]) * keep / 0xff)
			}
		}
	}
}

// capsule rasterizes the union of two end discs and the rectangle joining them. It
// returns the coverage mask and the destination rectangle it maps onto.
func capsule(a, b point, radius float64, bounds image.Rectangle) (*image.Alpha, image.Rectangle) {
	if radius <= 0 {
		return nil, image.Rectangle{}
	}
	pad := radius + 1
	r := image.Rect(
		int(math.Floor(math.Min(a.x, b.x)-pad)), int(math.Floor(math.Min(a.y, b.y)-pad)),
		int(math.Ceil(math.Max(a.x, b.x)+pad)), int(math.Ceil(math.Max(a.y, b.y)+pad)),
	).Intersect(bounds)
	if r.Empty() {
		return nil, image.Rectangle{}
	}

	w, h := r.Dx(), r.Dy()
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	a = point{a.x - ox, a.y - oy}
	b = point{b.x - ox, b.y - oy}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z := vector.NewRasterizer(w, h)
	fill := func(path func(*vector.Rasterizer)) {
		z.Reset(w, h)
		path(z)
		z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	}

	fill(func(z *vector.Rasterizer) { disc(z, a, radius) })

	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length < 1e-6 {
		return mask, r
	}
	fill(func(z *vector.Rasterizer) { disc(z, b, radius) })

	nx, ny := -dy/length*radius, dx/length*radius
	fill(func(z *vector.Rasterizer) {
		z.MoveTo(float32(a.x+nx), float32(a.y+ny))
		z.LineTo(float32(b.x+nx), float32(b.y+ny))
		z.LineTo(float32(b.x-nx), float32(b.y-ny))
		z.LineTo(float32(a.x-nx), float32(a.y-ny))
		z.ClosePath()
	})
	return mask, r
}

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

func disc(z *vector.Rasterizer, c point, r float64) {
	k := kappa * r
	f := func(v float64) float32 { return float32(v) }
	z.MoveTo(f(c.x+r), f(c.y))
	z.CubeTo(f(c.x+r), f(c.y+k), f(c.x+k), f(c.y+r), f(c.x), f(c.y+r))
	z.CubeTo(f(c.x-k), f(c.y+r), f(c.x-r), f(c.y+k), f(c.x-r), f(c.y))
	z.CubeTo(f(c.x-r), f(c.y-k), f(c.x-k), f(c.y-r), f(c.x), f(c.y-r))
	z.CubeTo(f(c.x+k), f(c.y-r), f(c.x+r), f(c.y-k), f(c.x+r), f(c.y))
	z.ClosePath()
}

func finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) && !math.IsInf(x, 0) && !math.IsInf(y, 0)
}

// Pixel returns the straight-alpha color at x, y. Points outside the raster are
// transparent.
func (s *Surface) Pixel(x, y int) color.NRGBA {
	if !s.Mounted() || !image.Pt(x, y).In(s.img.Bounds()) {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(s.img.RGBAAt(x, y)).(color.NRGBA)
}
