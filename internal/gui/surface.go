package gui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/clothsim/internal/render"
)

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// solid returns a 1x1 white source for DrawTriangles. The outer pixels of the
// backing image keep filtering from bleeding in.
func solid() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// Surface draws into an ebiten image. Points are in cell units and are scaled
// by the cell size, so the window shows the same geometry as the terminal.
type Surface struct {
	screen       *ebiten.Image
	cols, rows   int
	cellW, cellH float32
	theme        render.Theme
}

func (s *Surface) Size() (int, int) { return s.cols, s.rows }

func (s *Surface) Clear() {
	r, g, b := render.ParseHex(string(s.theme.Background))
	s.screen.Fill(color.RGBA{r, g, b, 0xff})
}

func (s *Surface) rgba(c render.Color) color.RGBA {
	r, g, b := s.theme.RGB(c)
	return color.RGBA{r, g, b, 0xff}
}

func (s *Surface) xy(p render.Point) (float32, float32) {
	return float32(p.X) * s.cellW, float32(p.Y) * s.cellH
}

func (s *Surface) FillTriangle(a, b, c render.Point, glyph rune, col render.Color) {
	red, green, blue := s.theme.RGB(col)
	cr := float32(red) / 0xff
	cg := float32(green) / 0xff
	cb := float32(blue) / 0xff
	const ca = 0.6

	vs := make([]ebiten.Vertex, 0, 3)
	for _, p := range []render.Point{a, b, c} {
		x, y := s.xy(p)
		vs = append(vs, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	s.screen.DrawTriangles(vs, []uint16{0, 1, 2}, solid(), &ebiten.DrawTrianglesOptions{})
}

func (s *Surface) DrawLine(a, b render.Point, glyph rune, col render.Color) {
	ax, ay := s.xy(a)
	bx, by := s.xy(b)
	vector.StrokeLine(s.screen, ax, ay, bx, by, 1.5, s.rgba(col), true)
}

func (s *Surface) Draw(p render.Point, glyph rune, col render.Color) {
	x, y := s.xy(p)
	vector.DrawFilledCircle(s.screen, x, y, s.cellW*0.4, s.rgba(col), true)
}
