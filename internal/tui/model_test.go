package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/clothsim/internal/sim"
)

func newTestModel() Model {
	p := sim.DefaultParams()
	p.Seed = 3
	m := New(Options{Params: p, FPS: 30, Theme: "console"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func tickAt(frame int) tickMsg {
	return tickMsg(start.Add(time.Duration(frame) * time.Second / 30))
}

func TestResizeRebuildsForCanvas(t *testing.T) {
	m := newTestModel()
	w, h := m.canvas.Size()
	if w != 100-hudWidth || h != 40 {
		t.Errorf("expected canvas %dx40, got %dx%d", 100-hudWidth, w, h)
	}

	// the right column spans 1/8..7/8 of the canvas width
	right := m.Controller().Cloth().At(9, 0).Pos.X
	if want := float64(w) * 7 / 8; right < want-1 || right > want+1 {
		t.Errorf("expected right edge near %f, got %f", want, right)
	}
}

func TestMouseGrabAndRelease(t *testing.T) {
	m := newTestModel()
	corner := m.Controller().Cloth().At(0, 0).Pos

	press := tea.MouseMsg{X: int(corner.X), Y: int(corner.Y), Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = send(m, press, tickAt(0))
	if m.Controller().State() != sim.Holding {
		t.Fatalf("expected holding after press, got %s", m.Controller().State())
	}

	release := tea.MouseMsg{X: int(corner.X), Y: int(corner.Y), Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	m, _ = send(m, release, tickAt(1))
	if m.Controller().State() != sim.Idle {
		t.Errorf("expected idle after release, got %s", m.Controller().State())
	}
}

func TestMotionMovesCursorOnly(t *testing.T) {
	m := newTestModel()
	m, _ = send(m, tea.MouseMsg{X: 5, Y: 6, Action: tea.MouseActionMotion}, tickAt(0))

	if m.cursor.X != 5 || m.cursor.Y != 6 {
		t.Errorf("expected cursor (5,6), got %v", m.cursor)
	}
	if m.Controller().State() != sim.Idle {
		t.Error("motion alone should not grab")
	}
}

func TestSpaceTogglesGrab(t *testing.T) {
	m := newTestModel()
	corner := m.Controller().Cloth().At(0, 0).Pos
	space := tea.KeyMsg{Type: tea.KeySpace}

	m, _ = send(m, tea.MouseMsg{X: int(corner.X), Y: int(corner.Y), Action: tea.MouseActionMotion}, space, tickAt(0))
	if m.Controller().State() != sim.Holding {
		t.Fatalf("expected holding after space, got %s", m.Controller().State())
	}

	m, _ = send(m, space, tickAt(1))
	if m.Controller().State() != sim.Idle {
		t.Errorf("expected idle after second space, got %s", m.Controller().State())
	}
}

func TestPauseKey(t *testing.T) {
	m := newTestModel()
	p := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}

	m, _ = send(m, p, tickAt(0), tickAt(1))
	if !m.Paused() || m.Controller().Frame() != 0 {
		t.Errorf("expected paused with no frames, got paused=%v frame=%d", m.Paused(), m.Controller().Frame())
	}

	m, _ = send(m, p, tickAt(2))
	if m.Controller().Frame() != 1 {
		t.Errorf("expected one frame after resume, got %d", m.Controller().Frame())
	}
}

func TestResetKey(t *testing.T) {
	m := newTestModel()
	initial := m.Controller().Cloth().Clone()

	for i := 0; i < 20; i++ {
		m, _ = send(m, tickAt(i))
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}, tickAt(20))

	got := m.Controller().Cloth()
	for i := range got.Particles {
		if got.Particles[i].Pos != initial.Particles[i].Pos {
			t.Fatalf("particle %d not restored: %v vs %v", i, got.Particles[i].Pos, initial.Particles[i].Pos)
		}
	}
}

func TestThemeKeyCycles(t *testing.T) {
	m := newTestModel()
	before := m.Theme().Name
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if m.Theme().Name == before {
		t.Errorf("expected theme to change from %s", before)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel()
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestTickSchedulesNext(t *testing.T) {
	m := newTestModel()
	_, cmd := send(m, tickAt(0))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestViewShowsHUD(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 5; i++ {
		m, _ = send(m, tickAt(i))
	}

	view := m.View()
	for _, want := range []string{"CLOTH 10x12", "RUNNING", "Stress", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestDragReleaseAtDefaultRateStaysFinite(t *testing.T) {
	m := newTestModel()
	bottom := m.Controller().Cloth().At(9, 11).Pos
	x, y := int(bottom.X), int(bottom.Y)

	m, _ = send(m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, tickAt(0))
	if m.Controller().State() != sim.Holding {
		t.Fatalf("expected holding after press, got %s", m.Controller().State())
	}

	frame := 1
	for lift := 1; lift <= 20; lift++ {
		m, _ = send(m, tea.MouseMsg{X: x, Y: y - lift, Action: tea.MouseActionMotion}, tickAt(frame), tickAt(frame+1))
		frame += 2
	}
	m, _ = send(m, tea.MouseMsg{X: x, Y: y - 20, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	for end := frame + 400; frame < end; frame++ {
		m, _ = send(m, tickAt(frame))
		if !m.Controller().Cloth().Valid() {
			t.Fatalf("cloth diverged on tick %d", frame)
		}
	}
}
