package sim

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/render"
)

type countingObserver struct {
	calls int
	lastT float64
}

func (o *countingObserver) Observe(c *cloth.Cloth, t float64) {
	o.calls++
	o.lastT = t
}

func TestController_FirstFrameGravityOnly(t *testing.T) {
	p := DefaultParams()
	p.Cloth = cloth.Params{Width: 2, Height: 2, Stiffness: 437.243, Damping: 4.97}
	p.Jitter = 0
	ctrl := New(p, 80, 100)

	before := ctrl.Cloth().Clone()
	dt := 0.01
	ctrl.Update(dt, Input{}, nil)

	for i, pt := range ctrl.Cloth().Particles {
		if pt.Locked {
			if pt.Pos != before.Particles[i].Pos || !pt.Vel.IsZero() {
				t.Errorf("locked particle %d moved: %v", i, pt.Pos)
			}
			continue
		}
		if math.Abs(pt.Vel.Y-p.Gravity*dt) > 1e-9 || math.Abs(pt.Vel.X) > 1e-9 {
			t.Errorf("particle %d: expected vel (0,%f), got %v", i, p.Gravity*dt, pt.Vel)
		}
	}
}

func TestController_DrawCounts(t *testing.T) {
	p := DefaultParams()
	ctrl := New(p, 80, 100)

	cmds, ok := ctrl.Step(1.0/60, Input{})
	if !ok {
		t.Fatal("step should continue")
	}

	counts := map[render.CommandKind]int{}
	for _, c := range cmds {
		counts[c.Kind]++
	}

	w, h := p.Cloth.Width, p.Cloth.Height
	want := map[render.CommandKind]int{
		render.CmdClear:    1,
		render.CmdTriangle: 2 * (w - 1) * (h - 1),
		render.CmdLine:     cloth.SpringCount(w, h),
		render.CmdPoint:    w * h,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("draw counts mismatch (-want +got):\n%s", diff)
	}
	if cmds[0].Kind != render.CmdClear {
		t.Errorf("expected clear first, got %s", cmds[0].Kind)
	}
	if last := cmds[len(cmds)-1]; last.Kind != render.CmdPoint || last.Glyph != render.GlyphNode {
		t.Errorf("expected particles drawn last, got %+v", last)
	}
}

func TestController_DrawColorsFollowStress(t *testing.T) {
	p := DefaultParams()
	p.Cloth = cloth.Params{Width: 2, Height: 2, Stiffness: 1}
	ctrl := New(p, 80, 100)

	ctrl.Cloth().At(1, 1).Vel = cloth.Vec{X: 25}
	rec := render.NewRecorder(80, 100)
	ctrl.Draw(rec)

	for _, c := range rec.Commands {
		if c.Kind != render.CmdPoint {
			continue
		}
		if c.Points[0] == ctrl.Cloth().At(1, 1).Pos && c.Color != render.GradientSize-1 {
			t.Errorf("fast particle should be hottest, got %d", c.Color)
		}
	}
}

func TestController_ResetMatchesFreshBuild(t *testing.T) {
	p := DefaultParams()
	p.Seed = 99

	ctrl := New(p, 80, 100)
	for i := 0; i < 200; i++ {
		ctrl.Update(1.0/60, Input{Cursor: cloth.Vec{X: 40, Y: 30}, Grab: i == 10, Release: i == 100}, nil)
	}
	ctrl.Update(1.0/60, Input{Reset: true, Pause: true}, nil)

	fresh := New(p, 80, 100)
	if diff := cmp.Diff(fresh.Cloth(), ctrl.Cloth()); diff != "" {
		t.Errorf("reset cloth differs from fresh build (-fresh +reset):\n%s", diff)
	}
	if _, holding := ctrl.Held(); holding {
		t.Error("held particle survived reset")
	}
}

func TestController_WindFollowsSine(t *testing.T) {
	p := DefaultParams()
	ctrl := New(p, 80, 100)
	dt := 0.01

	ctrl.Update(dt, Input{}, nil)
	if ctrl.Gravity().X != 0 {
		t.Errorf("expected no wind after first frame, got %f", ctrl.Gravity().X)
	}

	ctrl.Update(dt, Input{}, nil)
	want := p.WindAmplitude * math.Sin(dt)
	if math.Abs(ctrl.Gravity().X-want) > 1e-12 {
		t.Errorf("expected wind %f, got %f", want, ctrl.Gravity().X)
	}
	if ctrl.Gravity().Y != p.Gravity {
		t.Errorf("vertical gravity changed: %f", ctrl.Gravity().Y)
	}
	if math.Abs(ctrl.Elapsed()-2*dt) > 1e-12 {
		t.Errorf("expected elapsed %f, got %f", 2*dt, ctrl.Elapsed())
	}
}

func TestController_GustsAreSeeded(t *testing.T) {
	p := DefaultParams()
	p.GustAmplitude = 4
	p.Seed = 5

	a, b := New(p, 80, 100), New(p, 80, 100)
	for i := 0; i < 30; i++ {
		a.Update(1.0/30, Input{}, nil)
		b.Update(1.0/30, Input{}, nil)
		if a.Gravity() != b.Gravity() {
			t.Fatalf("frame %d: gusts diverged: %v vs %v", i, a.Gravity(), b.Gravity())
		}
	}
}

func TestController_MaxDtClamp(t *testing.T) {
	p := DefaultParams()
	ctrl := New(p, 80, 100)

	ctrl.Update(5, Input{}, nil)
	if ctrl.Elapsed() != p.MaxDt {
		t.Errorf("expected dt clamped to %f, got %f", p.MaxDt, ctrl.Elapsed())
	}

	p.MaxDt = 0
	unclamped := New(p, 80, 100)
	unclamped.Update(0.5, Input{}, nil)
	if math.Abs(unclamped.Elapsed()-0.5) > 1e-12 {
		t.Errorf("expected unclamped dt 0.5, got %f", unclamped.Elapsed())
	}
}

func TestController_Substeps(t *testing.T) {
	p := DefaultParams()
	p.Jitter = 0
	split := New(p, 80, 100)
	stepped := New(p, 80, 100)
	obs := &countingObserver{}
	split.AddObserver(obs)

	split.Update(1.0/30, Input{}, nil)
	stepped.Update(1.0/60, Input{}, nil)
	stepped.Update(1.0/60, Input{}, nil)

	if split.Frame() != 1 || obs.calls != 1 {
		t.Errorf("expected one frame and one observation, got %d and %d", split.Frame(), obs.calls)
	}
	for i := range split.Cloth().Particles {
		a, b := split.Cloth().Particles[i], stepped.Cloth().Particles[i]
		if a.Pos.Dist(b.Pos) > 1e-9 || a.Vel.Dist(b.Vel) > 1e-9 {
			t.Fatalf("particle %d: split frame %v differs from two frames %v", i, a, b)
		}
	}
	if math.Abs(split.Gravity().X-stepped.Gravity().X) > 1e-12 {
		t.Errorf("expected wind %f, got %f", stepped.Gravity().X, split.Gravity().X)
	}
}

// dragAndRelease pulls the bottom-right particle up by lift cells over 60
// frames, holds it, lets go at frame 300 and runs on. It returns the first
// frame with a non-finite cloth, or -1.
func dragAndRelease(ctrl *Controller, dt, lift float64, frames int) int {
	start := ctrl.Cloth().At(9, 11).Pos
	for f := 0; f < frames; f++ {
		in := Input{Cursor: start, Grab: f == 0, Release: f == 300}
		if f < 300 {
			t := math.Min(float64(f)/60, 1)
			in.Cursor = cloth.Vec{X: start.X, Y: start.Y - lift*t}
		}
		ctrl.Update(dt, in, nil)
		if !ctrl.Cloth().Valid() {
			return f
		}
	}
	return -1
}

func TestController_DragReleaseStaysFinite(t *testing.T) {
	for _, lift := range []float64{12, 21, 30} {
		ctrl := New(DefaultParams(), 80, 40)
		if f := dragAndRelease(ctrl, DefaultMaxDt, lift, 700); f >= 0 {
			t.Errorf("lift %.0f: cloth diverged at frame %d", lift, f)
		}
		if _, holding := ctrl.Held(); holding {
			t.Errorf("lift %.0f: particle still held after release", lift)
		}
	}
}

func TestController_PauseSkipsPhysics(t *testing.T) {
	ctrl := New(DefaultParams(), 80, 100)
	obs := &countingObserver{}
	ctrl.AddObserver(obs)

	before := ctrl.Cloth().Clone()
	cmds, _ := ctrl.Step(1.0/60, Input{Pause: true})

	if diff := cmp.Diff(before, ctrl.Cloth()); diff != "" {
		t.Errorf("paused frame changed the cloth:\n%s", diff)
	}
	if len(cmds) == 0 {
		t.Error("paused frame should still draw")
	}
	if obs.calls != 0 {
		t.Errorf("observer ran during pause: %d calls", obs.calls)
	}
}

func TestController_Observers(t *testing.T) {
	ctrl := New(DefaultParams(), 80, 100)
	obs := &countingObserver{}
	ctrl.AddObserver(obs)

	for i := 0; i < 5; i++ {
		ctrl.Update(0.01, Input{}, nil)
	}
	if obs.calls != 5 {
		t.Errorf("expected 5 observations, got %d", obs.calls)
	}
	if math.Abs(obs.lastT-0.05) > 1e-12 {
		t.Errorf("expected last t 0.05, got %f", obs.lastT)
	}
}

func TestController_StaysFinite(t *testing.T) {
	ctrl := New(DefaultParams(), 80, 100)
	for i := 0; i < 600; i++ {
		ctrl.Update(1.0/30, Input{}, nil)
	}
	if !ctrl.Cloth().Valid() {
		t.Fatal("cloth diverged at the default frame rate")
	}
}

func TestController_ResizeAffectsNextLayout(t *testing.T) {
	ctrl := New(DefaultParams(), 80, 100)
	right := ctrl.Cloth().At(9, 0).Pos.X

	ctrl.Resize(160, 100)
	if ctrl.Cloth().At(9, 0).Pos.X != right {
		t.Error("resize should not move the current cloth")
	}

	ctrl.Reset()
	if got := ctrl.Cloth().At(9, 0).Pos.X; got <= right {
		t.Errorf("expected wider layout after reset, got x=%f (was %f)", got, right)
	}
}

func TestState_String(t *testing.T) {
	if Idle.String() != "idle" || Holding.String() != "holding" {
		t.Errorf("unexpected state names: %s %s", Idle, Holding)
	}
}

func BenchmarkControllerStep(b *testing.B) {
	ctrl := New(DefaultParams(), 80, 100)
	rec := render.NewRecorder(80, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctrl.Update(1.0/60, Input{}, rec)
	}
}
