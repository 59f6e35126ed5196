package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/cloth"
)

const frameDt = 1.0 / 60.0

var _ = Describe("Controller", func() {
	var (
		ctrl   *Controller
		params Params
	)

	BeforeEach(func() {
		params = DefaultParams()
		params.Seed = 42
		// keeps neighbours of the pinned corner out of the grab radius
		params.Jitter = 0
		ctrl = New(params, 80, 100)
	})

	It("starts idle with a freshly built cloth", func() {
		Expect(ctrl.State()).To(Equal(Idle))
		Expect(ctrl.Cloth().Particles).To(HaveLen(120))
		Expect(ctrl.Cloth().Springs).To(HaveLen(218))
		Expect(ctrl.Frame()).To(BeZero())
	})

	Describe("grabbing", func() {
		It("holds the last particle within the grab radius", func() {
			target := ctrl.Cloth().Particles[57].Pos
			want, ok := ctrl.Cloth().Pick(target, params.GrabRadius)
			Expect(ok).To(BeTrue())

			ctrl.Update(frameDt, Input{Cursor: target, Grab: true}, nil)

			idx, holding := ctrl.Held()
			Expect(holding).To(BeTrue())
			Expect(idx).To(Equal(want))
			Expect(ctrl.State()).To(Equal(Holding))
		})

		It("stays idle when nothing is near the cursor", func() {
			ctrl.Update(frameDt, Input{Cursor: cloth.Vec{X: -500, Y: -500}, Grab: true}, nil)
			Expect(ctrl.State()).To(Equal(Idle))
		})

		It("pins the held particle to the cursor", func() {
			corner := ctrl.Cloth().At(0, 0).Pos
			ctrl.Update(frameDt, Input{Cursor: corner, Grab: true}, nil)

			// the top-left corner is locked, so only the override moves it
			cursor := cloth.Vec{X: corner.X + 3, Y: corner.Y + 4}
			ctrl.Update(frameDt, Input{Cursor: cursor}, nil)

			idx, _ := ctrl.Held()
			Expect(ctrl.Cloth().Particles[idx].Pos).To(Equal(cursor))
		})

		It("moves a free particle to the cursor while paused", func() {
			p := ctrl.Cloth().At(5, 11).Pos
			ctrl.Update(frameDt, Input{Cursor: p, Grab: true, Pause: true}, nil)

			cursor := cloth.Vec{X: p.X + 10, Y: p.Y + 10}
			ctrl.Update(frameDt, Input{Cursor: cursor, Pause: true}, nil)

			idx, holding := ctrl.Held()
			Expect(holding).To(BeTrue())
			Expect(ctrl.Cloth().Particles[idx].Pos).To(Equal(cursor))
			Expect(ctrl.Frame()).To(BeZero())
		})
	})

	Describe("releasing", func() {
		It("returns to idle and stops following the cursor", func() {
			corner := ctrl.Cloth().At(0, 0).Pos
			ctrl.Update(frameDt, Input{Cursor: corner, Grab: true}, nil)
			ctrl.Update(frameDt, Input{Cursor: corner, Release: true}, nil)
			Expect(ctrl.State()).To(Equal(Idle))

			ctrl.Update(frameDt, Input{Cursor: cloth.Vec{X: 1, Y: 1}}, nil)
			Expect(ctrl.Cloth().At(0, 0).Pos).To(Equal(corner))
		})

		It("handles grab and release on the same frame", func() {
			corner := ctrl.Cloth().At(0, 0).Pos
			ctrl.Update(frameDt, Input{Cursor: corner, Grab: true, Release: true}, nil)
			Expect(ctrl.State()).To(Equal(Idle))
		})
	})

	Describe("reset", func() {
		It("clears the held particle", func() {
			corner := ctrl.Cloth().At(0, 0).Pos
			ctrl.Update(frameDt, Input{Cursor: corner, Grab: true}, nil)
			ctrl.Update(frameDt, Input{Cursor: corner, Reset: true}, nil)

			Expect(ctrl.State()).To(Equal(Idle))

			far := cloth.Vec{X: 300, Y: 300}
			ctrl.Update(frameDt, Input{Cursor: far}, nil)
			for _, p := range ctrl.Cloth().Particles {
				Expect(p.Pos.Dist(far)).To(BeNumerically(">", 1))
			}
		})

		It("restores the initial build regardless of history", func() {
			initial := ctrl.Cloth().Clone()
			for i := 0; i < 120; i++ {
				ctrl.Update(frameDt, Input{}, nil)
			}
			Expect(ctrl.Cloth().Particles).NotTo(Equal(initial.Particles))

			ctrl.Reset()
			Expect(ctrl.Cloth().Particles).To(Equal(initial.Particles))
			Expect(ctrl.Cloth().Springs).To(Equal(initial.Springs))
		})
	})

	It("stops when asked to quit", func() {
		Expect(ctrl.Update(frameDt, Input{Quit: true}, nil)).To(BeFalse())
		Expect(ctrl.Update(frameDt, Input{}, nil)).To(BeTrue())
	})
})
