package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/clothsim/internal/render"
)

// terminal cells are about twice as tall as they are wide
const cellAspect = 2.0

// SVG is a render.Surface that writes each draw call as an SVG element.
type SVG struct {
	width, height int
	scale         float64
	theme         render.Theme
	body          strings.Builder
}

func NewSVG(w, h int, scale float64, theme render.Theme) *SVG {
	if scale <= 0 {
		scale = 8
	}
	return &SVG{width: w, height: h, scale: scale, theme: theme}
}

func (s *SVG) Size() (int, int) { return s.width, s.height }

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) FillTriangle(a, b, c render.Point, glyph rune, col render.Color) {
	ax, ay := s.xy(a)
	bx, by := s.xy(b)
	cx, cy := s.xy(c)
	fmt.Fprintf(&s.body, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" fill-opacity="0.6"/>
`, ax, ay, bx, by, cx, cy, s.theme.Color(col))
}

func (s *SVG) DrawLine(a, b render.Point, glyph rune, col render.Color) {
	ax, ay := s.xy(a)
	bx, by := s.xy(b)
	fmt.Fprintf(&s.body, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, ax, ay, bx, by, s.theme.Color(col), s.scale/4)
}

func (s *SVG) Draw(p render.Point, glyph rune, col render.Color) {
	x, y := s.xy(p)
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, s.scale*0.4, s.theme.Color(col))
}

func (s *SVG) xy(p render.Point) (float64, float64) {
	return finite(p.X * s.scale), finite(p.Y * s.scale * cellAspect)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// String returns the complete document.
func (s *SVG) String() string {
	w := float64(s.width) * s.scale
	h := float64(s.height) * s.scale * cellAspect

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, s.theme.Background)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// FrameToSVG replays a recorded frame onto a fresh SVG.
func FrameToSVG(cmds []render.Command, w, h int, scale float64, theme render.Theme) string {
	s := NewSVG(w, h, scale, theme)
	render.Replay(cmds, s)
	return s.String()
}

// SeriesToSVG plots a time series as a polyline, scaled to fill the image.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	minV -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minV)/span*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
