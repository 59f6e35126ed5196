package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	glyph rune
	color Color
	set   bool
}

// Canvas is a character-cell Surface. One world unit is one cell.
type Canvas struct {
	Width, Height int
	Grid          [][]cell
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]cell, h)
	for i := range c.Grid {
		c.Grid[i] = make([]cell, w)
	}
	c.Clear()
}

func (c *Canvas) Size() (int, int) { return c.Width, c.Height }

// Clear resets every cell to blank.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = cell{glyph: GlyphBlank}
		}
	}
}

// Set writes one cell; out of range writes are dropped.
func (c *Canvas) Set(x, y int, glyph rune, col Color) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Grid[y][x] = cell{glyph: glyph, color: col, set: true}
}

// At returns the glyph at (x, y), or blank outside the canvas.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return GlyphBlank
	}
	return c.Grid[y][x].glyph
}

// ColorAt returns the color at (x, y) and whether the cell was drawn.
func (c *Canvas) ColorAt(x, y int) (Color, bool) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return 0, false
	}
	return c.Grid[y][x].color, c.Grid[y][x].set
}

func (c *Canvas) Draw(p Point, glyph rune, col Color) {
	x, y := c.cellOf(p)
	c.Set(x, y, glyph, col)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(a, b Point, glyph rune, col Color) {
	x0, y0 := c.cellOf(a)
	x1, y1 := c.cellOf(b)
	c.line(x0, y0, x1, y1, glyph, col)
}

func (c *Canvas) line(x0, y0, x1, y1 int, glyph rune, col Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, glyph, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillTriangle fills every cell whose corner lies inside or on the triangle,
// then traces the edges so slivers still show.
func (c *Canvas) FillTriangle(a, b, p Point, glyph rune, col Color) {
	x0, y0 := c.cellOf(a)
	x1, y1 := c.cellOf(b)
	x2, y2 := c.cellOf(p)

	minX := max(min(x0, x1, x2), 0)
	maxX := min(max(x0, x1, x2), c.Width-1)
	minY := max(min(y0, y1, y2), 0)
	maxY := min(max(y0, y1, y2), c.Height-1)

	area := edge(x0, y0, x1, y1, x2, y2)
	if area != 0 {
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				w0 := edge(x1, y1, x2, y2, x, y)
				w1 := edge(x2, y2, x0, y0, x, y)
				w2 := edge(x0, y0, x1, y1, x, y)
				if area < 0 {
					w0, w1, w2 = -w0, -w1, -w2
				}
				if w0 >= 0 && w1 >= 0 && w2 >= 0 {
					c.Set(x, y, glyph, col)
				}
			}
		}
	}

	c.line(x0, y0, x1, y1, glyph, col)
	c.line(x1, y1, x2, y2, glyph, col)
	c.line(x2, y2, x0, y0, glyph, col)
}

// String returns the canvas without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		for _, cl := range row {
			b.WriteRune(cl.glyph)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Render returns the canvas colored with the theme's gradient. Runs of
// equal color share one style.
func (c *Canvas) Render(t Theme) string {
	var b strings.Builder
	var styles [GradientSize]lipgloss.Style
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(t.Gradient[i])
	}

	var run strings.Builder
	flush := func(cl cell) {
		if run.Len() == 0 {
			return
		}
		if cl.set {
			b.WriteString(styles[cl.color].Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for y, row := range c.Grid {
		var prev cell
		for x, cl := range row {
			if x > 0 && (cl.set != prev.set || (cl.set && cl.color != prev.color)) {
				flush(prev)
			}
			run.WriteRune(cl.glyph)
			prev = cl
		}
		flush(prev)
		if y < len(c.Grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// cellOf truncates world coordinates to a cell, like a console would.
// Coordinates far off the canvas are pulled in so rasterization stays bounded.
func (c *Canvas) cellOf(p Point) (int, int) {
	limit := float64(4*max(c.Width, c.Height) + 16)
	return clampCoord(p.X, limit), clampCoord(p.Y, limit)
}

func clampCoord(v, limit float64) int {
	if math.IsNaN(v) {
		return int(-limit)
	}
	return int(math.Floor(math.Max(-limit, math.Min(limit, v))))
}

func edge(ax, ay, bx, by, px, py int) int {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
