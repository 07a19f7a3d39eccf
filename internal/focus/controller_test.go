package focus

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/camera"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type fakeTracker struct {
	pos    map[string]mgl64.Vec3
	radius map[string]float64
}

func (f *fakeTracker) WorldPosition(id string) (mgl64.Vec3, bool) {
	p, ok := f.pos[id]
	return p, ok
}

func (f *fakeTracker) BodyRadius(id string) (float64, bool) {
	r, ok := f.radius[id]
	return r, ok
}

func approx(a, b mgl64.Vec3) bool { return a.ApproxEqualThreshold(b, 1e-9) }

var _ = Describe("Controller", func() {
	var (
		clock    *fakeClock
		tracker  *fakeTracker
		controls *camera.Controller
		ctrl     *Controller
	)

	runFor := func(d time.Duration) {
		for elapsed := time.Duration(0); elapsed < d; elapsed += 16 * time.Millisecond {
			clock.Advance(16 * time.Millisecond)
			ctrl.Tick()
		}
	}

	BeforeEach(func() {
		clock = &fakeClock{now: time.Unix(1000, 0)}
		tracker = &fakeTracker{
			pos: map[string]mgl64.Vec3{
				"mars":    {150, 0, 0},
				"venus":   {0, 0, 70},
				"jupiter": {-250, 5, 0},
			},
			radius: map[string]float64{"mars": 0.6, "venus": 1.0, "jupiter": 4.0},
		}
		controls = camera.NewController(camera.New(mgl64.Vec3{0, 200, 400}), camera.DefaultOptions())
		opts := DefaultOptions()
		opts.Clock = clock
		ctrl = New(tracker, controls, opts)
	})

	It("starts under user control", func() {
		Expect(ctrl.Authority()).To(Equal(UserControlled))
		Expect(ctrl.Active()).To(BeFalse())
		_, ok := ctrl.Focused()
		Expect(ok).To(BeFalse())
	})

	It("derives the arrival offset from the body radius", func() {
		Expect(approx(ctrl.Offset(0.6), mgl64.Vec3{3.5, 1.5, 3.5})).To(BeTrue())
		Expect(approx(ctrl.Offset(4), mgl64.Vec3{16.8, 7.2, 16.8})).To(BeTrue())
	})

	Describe("Focus", func() {
		It("rejects unknown bodies without touching state", func() {
			before := controls.Camera().Position
			err := ctrl.Focus("pluto")
			Expect(err).To(MatchError(ErrUnknownBody))
			Expect(ctrl.Authority()).To(Equal(UserControlled))
			Expect(ctrl.Active()).To(BeFalse())
			Expect(controls.Camera().Position).To(Equal(before))
		})

		It("keeps following when a later focus is unknown", func() {
			Expect(ctrl.Focus("mars")).To(Succeed())
			runFor(2100 * time.Millisecond)
			Expect(ctrl.Focus("pluto")).NotTo(Succeed())
			Expect(ctrl.Authority()).To(Equal(Following))
			id, _ := ctrl.Focused()
			Expect(id).To(Equal("mars"))
		})

		It("animates from the start view to the moving body", func() {
			start := controls.Camera().Position
			Expect(ctrl.Focus("mars")).To(Succeed())
			Expect(ctrl.Authority()).To(Equal(Animating))

			clock.Advance(time.Second)
			ctrl.Tick()
			want := mgl64.Vec3{153.5, 1.5, 3.5}
			Expect(approx(controls.Camera().Position, start.Add(want.Sub(start).Mul(0.875)))).To(BeTrue())
			Expect(approx(controls.Target(), mgl64.Vec3{150 * 0.875, 0, 0})).To(BeTrue())

			tracker.pos["mars"] = mgl64.Vec3{140, 0, 40}
			clock.Advance(time.Second)
			ctrl.Tick()

			Expect(ctrl.Authority()).To(Equal(Following))
			Expect(approx(controls.Camera().Position, mgl64.Vec3{143.5, 1.5, 43.5})).To(BeTrue())
			Expect(controls.Target()).To(Equal(mgl64.Vec3{140, 0, 40}))
			Expect(controls.Spherical().Radius).To(BeNumerically("~", ctrl.Offset(0.6).Len(), 1e-9))
		})

		It("follows at a fixed offset and ignores orbit input", func() {
			Expect(ctrl.Focus("venus")).To(Succeed())
			runFor(2100 * time.Millisecond)
			Expect(ctrl.Authority()).To(Equal(Following))

			tracker.pos["venus"] = mgl64.Vec3{10, 0, 69}
			controls.RotateLeft(1)
			controls.Wheel(1)
			ctrl.Tick()

			want := mgl64.Vec3{10, 0, 69}.Add(ctrl.Offset(1.0))
			Expect(controls.Camera().Position).To(Equal(want))
			Expect(controls.Camera().Target).To(Equal(mgl64.Vec3{10, 0, 69}))
		})

		It("tracks venus when venus replaces an unfinished mars flight", func() {
			Expect(ctrl.Focus("mars")).To(Succeed())
			mars, _ := ctrl.Session()
			runFor(time.Second)

			Expect(ctrl.Focus("venus")).To(Succeed())
			venus, _ := ctrl.Session()
			Expect(venus.ID).To(BeNumerically(">", mars.ID))
			Expect(venus.StartPosition).To(Equal(controls.Camera().Position))

			runFor(2100 * time.Millisecond)
			Expect(ctrl.Authority()).To(Equal(Following))
			id, _ := ctrl.Focused()
			Expect(id).To(Equal("venus"))

			ctrl.complete(mars.ID, mgl64.Vec3{153.5, 1.5, 3.5}, tracker.pos["mars"])
			id, _ = ctrl.Focused()
			Expect(id).To(Equal("venus"))
			Expect(controls.Target()).To(Equal(tracker.pos["venus"]))

			ctrl.Tick()
			Expect(controls.Camera().Position).To(Equal(tracker.pos["venus"].Add(venus.Offset)))
		})

		It("drops a superseded completion while the new flight is running", func() {
			Expect(ctrl.Focus("mars")).To(Succeed())
			mars, _ := ctrl.Session()
			Expect(ctrl.Focus("jupiter")).To(Succeed())

			ctrl.complete(mars.ID, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{})
			Expect(ctrl.Authority()).To(Equal(Animating))
			s, _ := ctrl.Session()
			Expect(s.Body).To(Equal("jupiter"))
			Expect(s.Animating).To(BeTrue())
		})

		It("unfocuses when the followed body disappears", func() {
			Expect(ctrl.Focus("mars")).To(Succeed())
			runFor(2100 * time.Millisecond)
			delete(tracker.pos, "mars")
			ctrl.Tick()
			Expect(ctrl.Authority()).To(Equal(UserControlled))
			Expect(ctrl.Active()).To(BeFalse())
		})
	})

	Describe("Unfocus", func() {
		It("is a no-op while idle", func() {
			before := controls.Camera().Position
			ctrl.Unfocus()
			ctrl.Unfocus()
			Expect(ctrl.Authority()).To(Equal(UserControlled))
			Expect(controls.Camera().Position).To(Equal(before))
		})

		It("hands the camera back to the orbit controller", func() {
			Expect(ctrl.Focus("mars")).To(Succeed())
			runFor(2100 * time.Millisecond)
			ctrl.Unfocus()
			Expect(ctrl.Authority()).To(Equal(UserControlled))

			pos := controls.Camera().Position
			ctrl.Tick()
			Expect(approx(controls.Camera().Position, pos)).To(BeTrue())
			Expect(controls.Target()).To(Equal(mgl64.Vec3{150, 0, 0}))

			controls.Wheel(1)
			ctrl.Tick()
			Expect(controls.Spherical().Radius).To(BeNumerically("~", ctrl.Offset(0.6).Len()*1.1, 1e-9))
		})
	})

	Describe("ResetCamera", func() {
		It("returns home and gives control back", func() {
			Expect(ctrl.Focus("jupiter")).To(Succeed())
			runFor(2100 * time.Millisecond)

			ctrl.ResetCamera()
			Expect(ctrl.Authority()).To(Equal(Animating))
			_, focused := ctrl.Focused()
			Expect(focused).To(BeFalse())
			Expect(ctrl.Active()).To(BeTrue())

			runFor(2100 * time.Millisecond)
			Expect(ctrl.Authority()).To(Equal(UserControlled))
			Expect(ctrl.Active()).To(BeFalse())
			Expect(approx(controls.Camera().Position, mgl64.Vec3{0, 200, 400})).To(BeTrue())
			Expect(controls.Target()).To(Equal(mgl64.Vec3{}))
		})

		It("is replaced by a focus request", func() {
			ctrl.ResetCamera()
			Expect(ctrl.Focus("venus")).To(Succeed())
			runFor(2100 * time.Millisecond)
			id, _ := ctrl.Focused()
			Expect(id).To(Equal("venus"))
		})
	})

	It("moves only through the orbit controller while idle", func() {
		controls.RotateLeft(0.2)
		ctrl.Tick()
		Expect(controls.Spherical().Theta).To(BeNumerically("~", -0.2, 1e-9))
	})
})
