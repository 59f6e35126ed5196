package render

import "github.com/san-kum/clothsim/internal/vmath"

type Point = vmath.Vec2[float64]

// Color is a position in the 8-step stress gradient, coolest first.
type Color uint8

const GradientSize = 8

const (
	GlyphBlank rune = ' '
	GlyphFace  rune = '*'
	GlyphEdge  rune = '#'
	GlyphNode  rune = 0x2588 // full block
)

// Surface is everything the simulation needs from a display.
type Surface interface {
	Size() (w, h int)
	Clear()
	FillTriangle(a, b, c Point, glyph rune, col Color)
	DrawLine(a, b Point, glyph rune, col Color)
	Draw(p Point, glyph rune, col Color)
}

// StressColor quantizes a stress value onto the gradient.
func StressColor(stress float64) Color {
	idx := int(GradientSize * stress)
	if idx < 0 {
		idx = 0
	}
	if idx > GradientSize-1 {
		idx = GradientSize - 1
	}
	return Color(idx)
}
