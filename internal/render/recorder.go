package render

type CommandKind uint8

const (
	CmdClear CommandKind = iota
	CmdTriangle
	CmdLine
	CmdPoint
)

func (k CommandKind) String() string {
	switch k {
	case CmdClear:
		return "clear"
	case CmdTriangle:
		return "triangle"
	case CmdLine:
		return "line"
	case CmdPoint:
		return "point"
	}
	return "unknown"
}

// Command is one recorded draw call. Only the first N points are meaningful:
// 0 for clear, 3 for triangles, 2 for lines, 1 for points.
type Command struct {
	Kind   CommandKind
	Points [3]Point
	Glyph  rune
	Color  Color
}

// Recorder is a Surface that keeps the draw calls instead of drawing them.
type Recorder struct {
	Width, Height int
	Commands      []Command
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{Width: w, Height: h}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

// Clear drops earlier commands and records the clear itself.
func (r *Recorder) Clear() {
	r.Commands = append(r.Commands[:0], Command{Kind: CmdClear, Glyph: GlyphBlank})
}

func (r *Recorder) FillTriangle(a, b, c Point, glyph rune, col Color) {
	r.Commands = append(r.Commands, Command{Kind: CmdTriangle, Points: [3]Point{a, b, c}, Glyph: glyph, Color: col})
}

func (r *Recorder) DrawLine(a, b Point, glyph rune, col Color) {
	r.Commands = append(r.Commands, Command{Kind: CmdLine, Points: [3]Point{a, b}, Glyph: glyph, Color: col})
}

func (r *Recorder) Draw(p Point, glyph rune, col Color) {
	r.Commands = append(r.Commands, Command{Kind: CmdPoint, Points: [3]Point{p}, Glyph: glyph, Color: col})
}

// Count returns how many commands of kind k were recorded.
func (r *Recorder) Count(k CommandKind) int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == k {
			n++
		}
	}
	return n
}

// Replay issues the recorded commands against another surface.
func Replay(cmds []Command, s Surface) {
	for _, c := range cmds {
		switch c.Kind {
		case CmdClear:
			s.Clear()
		case CmdTriangle:
			s.FillTriangle(c.Points[0], c.Points[1], c.Points[2], c.Glyph, c.Color)
		case CmdLine:
			s.DrawLine(c.Points[0], c.Points[1], c.Glyph, c.Color)
		case CmdPoint:
			s.Draw(c.Points[0], c.Glyph, c.Color)
		}
	}
}
