// Package render composes a board into a single PNG: pitch, drawing layer and
// player markers, in that order.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/playmatatu/tactics/internal/board"
	"github.com/playmatatu/tactics/internal/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Pitch geometry is laid out for a 450px field and scaled to the actual one.
const (
	refField = 450.0

	stripes      = 12
	fieldMargin  = 0.05
	lineWidth    = 2.0
	circleRadius = 75.0
	spotRadius   = 8.0
	boxDepth     = 100.0
	boxHeight    = 200.0
	spotDistance = 70.0

	MarkerRadius = 16.0
	nameRunes    = 14
)

var (
	stripeDark  = color.RGBA{0x15, 0x80, 0x3d, 0xff}
	stripeLight = color.RGBA{0x16, 0xa3, 0x4a, 0xff}
	lineColor   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	labelShadow = color.RGBA{0x00, 0x00, 0x00, 0xb0}
	fallback    = color.RGBA{0x6b, 0x72, 0x80, 0xff}
)

// Board writes the PNG export of b.
func Board(w io.Writer, b *board.Board) error {
	return png.Encode(w, Compose(b.State(), b.DrawingImage()))
}

// Export writes the PNG composite of st with layer drawn between pitch and markers.
func Export(w io.Writer, st board.State, layer image.Image) error {
	return png.Encode(w, Compose(st, layer))
}

// Compose renders st. A nil layer skips the drawing.
func Compose(st board.State, layer image.Image) *image.RGBA {
	w, h := st.Width, st.Height
	if w <= 0 || h <= 0 {
		w, h = board.DefaultWidth, board.DefaultHeight
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	p := &painter{dst: dst, z: vector.NewRasterizer(w, h)}

	p.pitch()
	if layer != nil {
		draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
	}
	for _, m := range st.Markers {
		p.marker(m)
	}
	return dst
}

type painter struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func (p *painter) fill(c color.Color, path func(z *vector.Rasterizer)) {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	path(p.z)
	p.z.Draw(p.dst, b, image.NewUniform(c), image.Point{})
}

func (p *painter) pitch() {
	b := p.dst.Bounds()
	w, h := b.Dx(), b.Dy()
	for i := 0; i < stripes; i++ {
		c := stripeDark
		if i%2 == 1 {
			c = stripeLight
		}
		r := image.Rect(0, i*h/stripes, w, (i+1)*h/stripes)
		draw.Draw(p.dst, r, image.NewUniform(c), image.Point{}, draw.Src)
	}

	x0, y0 := float32(float64(w)*fieldMargin), float32(float64(h)*fieldMargin)
	x1, y1 := float32(w)-x0, float32(h)-y0
	s := float32(math.Min(float64(x1-x0), float64(y1-y0)) / refField)
	t := float32(lineWidth)
	cx, cy := (x0+x1)/2, (y0+y1)/2

	p.fill(lineColor, func(z *vector.Rasterizer) {
		rectRing(z, x0, y0, x1, y1, t)
		rect(z, cx-t/2, y0, cx+t/2, y1, false)
		ring(z, cx, cy, circleRadius*s, t)
		circle(z, cx, cy, spotRadius*s, false)

		depth, half := boxDepth*s, boxHeight*s/2
		rectRing(z, x0, cy-half, x0+depth, cy+half, t)
		rectRing(z, x1-depth, cy-half, x1, cy+half, t)
		circle(z, x0+spotDistance*s, cy, spotRadius*s, false)
		circle(z, x1-spotDistance*s, cy, spotRadius*s, false)
	})
}

func (p *painter) marker(m board.Marker) {
	var c color.Color = fallback
	if parsed, err := drawing.ParseHexColor(m.Color); err == nil {
		c = parsed
	}
	x, y := float32(m.X), float32(m.Y)
	p.fill(lineColor, func(z *vector.Rasterizer) { circle(z, x, y, MarkerRadius, false) })
	p.fill(c, func(z *vector.Rasterizer) { circle(z, x, y, MarkerRadius-lineWidth, false) })

	name := fold(m.Name)
	label := strconv.Itoa(m.Number)
	if m.Number <= 0 {
		label = initial(name)
	}
	p.text(label, m.X, m.Y+4, lineColor)
	if name := truncate(name, nameRunes); name != "" {
		p.text(name, m.X+1, m.Y+MarkerRadius+14, labelShadow)
		p.text(name, m.X, m.Y+MarkerRadius+13, lineColor)
	}
}

// text draws s centered horizontally on x with its baseline at y. The face only has
// ASCII glyphs; callers fold labels first.
func (p *painter) text(s string, x, y float64, c color.Color) {
	d := &font.Drawer{Dst: p.dst, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	adv := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(x*64) - adv/2,
		Y: fixed.Int26_6(y * 64),
	}
	d.DrawString(s)
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold reduces a name to the ASCII the label face can draw: accents are dropped,
// đ becomes d and anything left outside ASCII becomes '?'.
func fold(s string) string {
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == 'đ':
			return 'd'
		case r == 'Đ':
			return 'D'
		case r > unicode.MaxASCII:
			return '?'
		}
		return r
	}, s)
}

func rect(z *vector.Rasterizer, x0, y0, x1, y1 float32, reverse bool) {
	pts := [4][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	if reverse {
		pts[1], pts[3] = pts[3], pts[1]
	}
	z.MoveTo(pts[0][0], pts[0][1])
	for _, pt := range pts[1:] {
		z.LineTo(pt[0], pt[1])
	}
	z.ClosePath()
}

// rectRing is a rectangle outline of thickness t drawn inward. The inner path runs the
// other way so the rasterizer leaves it empty.
func rectRing(z *vector.Rasterizer, x0, y0, x1, y1, t float32) {
	rect(z, x0, y0, x1, y1, false)
	rect(z, x0+t, y0+t, x1-t, y1-t, true)
}

func circle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	const segments = 64
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		if reverse {
			a = -a
		}
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func ring(z *vector.Rasterizer, cx, cy, r, t float32) {
	circle(z, cx, cy, r+t/2, false)
	circle(z, cx, cy, r-t/2, true)
}
