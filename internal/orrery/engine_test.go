package orrery

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/celestial"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/focus"
	"github.com/san-kum/orrery/internal/orbit"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

const dt = 0.016

var _ = Describe("Engine", func() {
	var (
		clock  *fakeClock
		engine *Engine
	)

	tick := func(n int) {
		for i := 0; i < n; i++ {
			clock.Advance(16 * time.Millisecond)
			engine.Tick(dt)
		}
	}

	newEngine := func(mutate func(*Options)) *Engine {
		opts := DefaultOptions()
		opts.System.Seed = 11
		opts.Focus.Clock = clock
		if mutate != nil {
			mutate(&opts)
		}
		e, err := New(opts)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	BeforeEach(func() {
		clock = &fakeClock{now: time.Unix(5000, 0)}
		engine = newEngine(nil)
	})

	It("starts at the default view under user control", func() {
		Expect(engine.Authority()).To(Equal(focus.UserControlled))
		Expect(engine.Camera().Position.ApproxEqualThreshold(mgl64.Vec3{0, 200, 400}, 1e-9)).To(BeTrue())
		_, ok := engine.CurrentlyFocused()
		Expect(ok).To(BeFalse())
	})

	It("rotates the galactic frame only while nothing is focused", func() {
		tick(10)
		angle := engine.System().GalacticAngle()
		Expect(angle).To(BeNumerically(">", 0))

		Expect(engine.Focus("earth")).To(Succeed())
		tick(10)
		Expect(engine.System().GalacticAngle()).To(Equal(angle))

		engine.Unfocus()
		tick(1)
		Expect(engine.System().GalacticAngle()).To(BeNumerically(">", angle))
	})

	It("flies to a planet and then follows it", func() {
		Expect(engine.Focus("mars")).To(Succeed())
		Expect(engine.Authority()).To(Equal(focus.Animating))
		id, _ := engine.CurrentlyFocused()
		Expect(id).To(Equal("mars"))

		tick(130)
		Expect(engine.Authority()).To(Equal(focus.Following))

		for i := 0; i < 20; i++ {
			tick(1)
			mars, ok := engine.BodyPosition("mars")
			Expect(ok).To(BeTrue())
			offset := engine.FocusController().Offset(0.6)
			Expect(engine.Camera().Position.ApproxEqualThreshold(mars.Add(offset), 1e-9)).To(BeTrue())
			Expect(engine.Controls().Target()).To(Equal(mars))
		}
	})

	It("ends on venus when venus is requested mid-flight to mars", func() {
		Expect(engine.Focus("mars")).To(Succeed())
		tick(40)
		Expect(engine.Focus("venus")).To(Succeed())
		tick(200)

		id, _ := engine.CurrentlyFocused()
		Expect(id).To(Equal("venus"))
		venus, _ := engine.BodyPosition("venus")
		Expect(engine.Controls().Target()).To(Equal(venus))
	})

	It("ignores unknown bodies", func() {
		before := engine.Camera().Position
		err := engine.Focus("pluto")
		Expect(err).To(MatchError(focus.ErrUnknownBody))
		Expect(engine.Authority()).To(Equal(focus.UserControlled))
		Expect(engine.Camera().Position).To(Equal(before))
	})

	It("treats unfocus while idle as a no-op", func() {
		engine.Unfocus()
		tick(1)
		Expect(engine.Authority()).To(Equal(focus.UserControlled))
	})

	It("freezes bodies while paused but keeps the camera live", func() {
		tick(5)
		Expect(engine.TogglePause()).To(BeTrue())

		before := engine.Snapshot()
		engine.Controls().RotateLeft(0.5)
		tick(30)
		after := engine.Snapshot()

		for i := range before.Bodies {
			Expect(after.Bodies[i].Position).To(Equal(before.Bodies[i].Position))
		}
		Expect(after.Camera).NotTo(Equal(before.Camera))
		Expect(after.Time).To(BeNumerically("~", before.Time+30*dt, 1e-9))
		Expect(after.BodyTime).To(Equal(before.BodyTime))

		Expect(engine.TogglePause()).To(BeFalse())
		tick(10)
		Expect(engine.BodyTime()).To(BeNumerically("~", before.BodyTime+10*dt, 1e-9))
	})

	It("runs flights on a simulated clock without wall time", func() {
		engine = newEngine(func(o *Options) {
			o.Focus.Clock = focus.NewSimClock(time.Unix(0, 0))
		})
		Expect(engine.Focus("earth")).To(Succeed())
		for i := 0; i < 130; i++ {
			engine.Tick(dt)
		}
		Expect(engine.Authority()).To(Equal(focus.Following))
	})

	It("reads reset positions back unchanged on a zero tick", func() {
		tick(50)
		engine.Reset()
		before := engine.Snapshot()
		engine.Tick(0)
		after := engine.Snapshot()
		for i := range before.Bodies {
			Expect(after.Bodies[i].Position).To(Equal(before.Bodies[i].Position))
		}
	})

	It("returns home on ResetCamera", func() {
		Expect(engine.Focus("jupiter")).To(Succeed())
		tick(130)
		engine.ResetCamera()
		tick(130)
		Expect(engine.Authority()).To(Equal(focus.UserControlled))
		Expect(engine.Camera().Position.ApproxEqualThreshold(mgl64.Vec3{0, 200, 400}, 1e-9)).To(BeTrue())
		Expect(engine.Controls().Target()).To(Equal(mgl64.Vec3{}))
	})

	It("scales motion with the time speed", func() {
		engine.SetTimeSpeed(10)
		Expect(engine.TimeSpeed()).To(Equal(10.0))
		before, _ := engine.System().State("earth")
		tick(1)
		after, _ := engine.System().State("earth")
		Expect(after.Angle - before.Angle).To(BeNumerically("~", 0.02*10*dt, 1e-12))
	})

	It("toggles path and label visibility", func() {
		engine.ToggleOrbitPathsVisible(false)
		engine.ToggleLabelsVisible(false)
		Expect(engine.System().PathsVisible()).To(BeFalse())
		Expect(engine.System().LabelsVisible()).To(BeFalse())
	})

	Describe("Click", func() {
		It("focuses the body under the cursor", func() {
			id, handled := engine.Click(0, 0)
			Expect(handled).To(BeTrue())
			Expect(id).To(Equal("sun"))
			focused, _ := engine.CurrentlyFocused()
			Expect(focused).To(Equal("sun"))
		})

		It("drops clicks inside the re-arm window", func() {
			_, handled := engine.Click(0, 0)
			Expect(handled).To(BeTrue())

			clock.Advance(50 * time.Millisecond)
			_, handled = engine.Click(0.99, 0.99)
			Expect(handled).To(BeFalse())
			focused, _ := engine.CurrentlyFocused()
			Expect(focused).To(Equal("sun"))
		})

		It("unfocuses when clicking empty space", func() {
			engine.Click(0, 0)
			clock.Advance(150 * time.Millisecond)
			id, handled := engine.Click(0.99, 0.99)
			Expect(handled).To(BeTrue())
			Expect(id).To(BeEmpty())
			_, ok := engine.CurrentlyFocused()
			Expect(ok).To(BeFalse())
		})

		It("does not focus moons", func() {
			engine = newEngine(func(o *Options) {
				o.Bodies = []celestial.Body{
					{ID: "p", Kind: celestial.Planet, Radius: 1},
					{ID: "m", Kind: celestial.Moon, Parent: "p", Radius: 10},
				}
			})
			id, handled := engine.Click(0, 0)
			Expect(handled).To(BeTrue())
			Expect(id).To(BeEmpty())
			_, ok := engine.CurrentlyFocused()
			Expect(ok).To(BeFalse())
		})
	})

	It("snapshots every body", func() {
		s := engine.Snapshot()
		Expect(s.Bodies).To(HaveLen(len(celestial.Catalog())))
		Expect(s.Authority).To(Equal("user"))
		Expect(s.Bodies[0].Kind).To(Equal("star"))
	})

	It("keeps the default speed when no time scale is set", func() {
		engine = newEngine(func(o *Options) { o.TimeScale = 0 })
		Expect(engine.TimeSpeed()).To(Equal(1.0))
	})
})

var _ = Describe("OptionsFromConfig", func() {
	It("maps camera and focus settings", func() {
		cfg := config.GetPreset("inspect")
		cfg.Camera.Position = []float64{1, 2, 3}
		opts := OptionsFromConfig(cfg, zeroLogger())

		Expect(opts.CameraPosition).To(Equal(mgl64.Vec3{1, 2, 3}))
		Expect(opts.Focus.HomePosition).To(Equal(mgl64.Vec3{1, 2, 3}))
		Expect(opts.Camera.EnableDamping).To(BeFalse())
		Expect(opts.Focus.Duration).To(Equal(500 * time.Millisecond))
		Expect(opts.System.PathSegments).To(Equal(orbit.DefaultSegments))
	})
})
