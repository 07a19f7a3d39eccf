package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestController(pos mgl64.Vec3, mutate func(*Options)) *Controller {
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	return NewController(New(pos), opts)
}

func TestNewController_KeepsPosition(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 200, 400}, nil)
	if !c.Camera().Position.ApproxEqualThreshold(mgl64.Vec3{0, 200, 400}, 1e-9) {
		t.Errorf("position = %v", c.Camera().Position)
	}
	s := c.Spherical()
	if math.Abs(s.Radius-math.Sqrt(200*200+400*400)) > 1e-9 {
		t.Errorf("radius = %v", s.Radius)
	}
	if c.Camera().Target != c.Target() {
		t.Error("camera not looking at target")
	}
}

func TestRotateUp_RejectsPastLimit(t *testing.T) {
	// phi ~= 0.02, just inside the upper pole limit
	pos := Spherical{Radius: 10, Phi: 0.02}.Vec3()

	tests := []struct {
		name      string
		angle     float64
		wantDelta float64
	}{
		{"within range", -0.5, 0.5},
		{"past the pole", 0.5, 0},
		{"small step towards the pole", 0.005, -0.005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(pos, nil)
			c.RotateUp(tt.angle)
			if got := c.Pending().Phi; math.Abs(got-tt.wantDelta) > 1e-9 {
				t.Errorf("Pending().Phi = %v, want %v", got, tt.wantDelta)
			}
		})
	}
}

func TestRotateUp_RejectionClearsAccumulatedDelta(t *testing.T) {
	c := newTestController(Spherical{Radius: 10, Phi: math.Pi / 2}.Vec3(), nil)
	c.RotateUp(0.2)
	c.RotateUp(0.2)
	c.RotateUp(10)
	if c.Pending().Phi != 0 {
		t.Errorf("Pending().Phi = %v, want 0", c.Pending().Phi)
	}
}

func TestUpdate_PolarInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, damping := range []bool{true, false} {
		c := newTestController(mgl64.Vec3{0, 200, 400}, func(o *Options) {
			o.EnableDamping = damping
			o.MinPolarAngle = 0.3
			o.MaxPolarAngle = 2.5
		})
		for i := 0; i < 2000; i++ {
			switch rng.Intn(4) {
			case 0:
				c.RotateUp((rng.Float64() - 0.5) * 50)
			case 1:
				c.RotateLeft((rng.Float64() - 0.5) * 50)
			case 2:
				c.RotateStart(0, 0)
				c.RotateMove(rng.Float64()*1e5-5e4, rng.Float64()*1e5-5e4)
				c.PointerUp()
			case 3:
				c.delta.Phi = (rng.Float64() - 0.5) * 1e3
			}
			c.Update()

			phi := c.Spherical().Phi
			if !(phi > 0.3 && phi < 2.5) {
				t.Fatalf("damping=%v step %d: phi = %v", damping, i, phi)
			}
			actual := SphericalFromVec3(c.Camera().Position.Sub(c.Target())).Phi
			if !(actual > 0.3 && actual < 2.5) {
				t.Fatalf("damping=%v step %d: camera phi = %v", damping, i, actual)
			}
		}
	}
}

func TestUpdate_RadiusInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	c := newTestController(mgl64.Vec3{0, 200, 400}, nil)
	opts := c.Options()

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			c.Wheel(rng.Float64() - 0.5)
		case 1:
			c.Zoom(math.Pow(10, rng.Float64()*20-10))
		case 2:
			c.TouchStart([]mgl64.Vec2{{0, 0}, {1, 0}})
			c.TouchMove([]mgl64.Vec2{{0, 0}, {rng.Float64() * 1e6, 0}})
			c.TouchEnd()
		case 3:
			for k := 0; k < 50; k++ {
				c.Wheel(1)
			}
		}
		c.Update()

		r := c.Spherical().Radius
		if r < opts.MinDistance || r > opts.MaxDistance {
			t.Fatalf("step %d: radius = %v", i, r)
		}
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		name   string
		deltaY float64
		want   float64
	}{
		{"away", 120, 11},
		{"towards", -120, 10 / 1.1},
		{"zero counts as towards", 0, 10 / 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
			c.Wheel(tt.deltaY)
			c.Update()
			if got := c.Spherical().Radius; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("radius = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWheel_ScaleIsConsumedPerFrame(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.Wheel(1)
	c.Update()
	c.Update()
	if got := c.Spherical().Radius; math.Abs(got-11) > 1e-9 {
		t.Errorf("radius = %v, want 11", got)
	}
}

func TestPinch(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.TouchStart([]mgl64.Vec2{{0, 0}, {100, 0}})
	if !c.Zooming() {
		t.Fatal("pinch not started")
	}
	c.TouchMove([]mgl64.Vec2{{0, 0}, {200, 0}})
	c.Update()
	if got := c.Spherical().Radius; math.Abs(got-20) > 1e-9 {
		t.Errorf("radius = %v, want 20", got)
	}
	c.TouchEnd()
	if c.Zooming() || c.Rotating() {
		t.Error("flags not cleared")
	}
}

func TestTouchRotate(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.SetViewport(1000, 500)
	c.TouchStart([]mgl64.Vec2{{0, 0}})
	c.TouchMove([]mgl64.Vec2{{100, 0}})
	want := -2 * math.Pi * 0.1 * 0.2
	if got := c.Pending().Theta; math.Abs(got-want) > 1e-12 {
		t.Errorf("Pending().Theta = %v, want %v", got, want)
	}
}

func TestMouseRotate(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.SetViewport(1000, 500)

	c.RotateMove(100, 0)
	if c.Pending().Theta != 0 {
		t.Fatal("move without press must be ignored")
	}

	c.RotateStart(0, 0)
	c.RotateMove(100, 50)
	wantTheta := -math.Pi * 0.1 * 0.2 * 0.5
	wantPhi := -math.Pi * 0.1 * 0.2 * 0.5
	if got := c.Pending(); math.Abs(got.Theta-wantTheta) > 1e-12 || math.Abs(got.Phi-wantPhi) > 1e-12 {
		t.Errorf("Pending() = %+v, want theta %v phi %v", got, wantTheta, wantPhi)
	}
	c.PointerUp()
	if c.Rotating() {
		t.Error("still rotating after pointer up")
	}
}

func TestDamping(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.RotateLeft(0.1)
	c.Update()
	if got := c.Pending().Theta; math.Abs(got+0.1*0.95) > 1e-12 {
		t.Errorf("damped delta = %v, want %v", got, -0.095)
	}
	if got := c.Spherical().Theta; math.Abs(got+0.1) > 1e-9 {
		t.Errorf("theta = %v, want -0.1", got)
	}

	c = newTestController(mgl64.Vec3{0, 0, 10}, func(o *Options) { o.EnableDamping = false })
	c.RotateLeft(0.1)
	c.Update()
	if c.Pending() != (Spherical{}) {
		t.Errorf("undamped delta = %+v, want zero", c.Pending())
	}
}

func TestPan(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.PanStart(0, 0)
	c.PanMove(10, 0)
	c.Update()

	if !c.Target().ApproxEqualThreshold(mgl64.Vec3{-3, 0, 0}, 1e-9) {
		t.Errorf("target = %v, want (-3, 0, 0)", c.Target())
	}
	if !c.Camera().Position.ApproxEqualThreshold(mgl64.Vec3{-3, 0, 10}, 1e-9) {
		t.Errorf("position = %v, want (-3, 0, 10)", c.Camera().Position)
	}

	c.Update()
	if !c.Target().ApproxEqualThreshold(mgl64.Vec3{-3, 0, 0}, 1e-9) {
		t.Error("pan offset applied twice")
	}
}

func TestDisabledInputs(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, func(o *Options) {
		o.EnableRotate = false
		o.EnableZoom = false
		o.EnablePan = false
	})
	c.RotateStart(0, 0)
	c.PanStart(0, 0)
	c.Wheel(1)
	c.TouchStart([]mgl64.Vec2{{0, 0}, {10, 0}})
	if c.Rotating() || c.Panning() || c.Zooming() {
		t.Error("disabled input started an interaction")
	}
	c.Update()
	if math.Abs(c.Spherical().Radius-10) > 1e-9 {
		t.Error("disabled zoom changed the radius")
	}
}

func TestUpdate_DegenerateOffset(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.RotateLeft(1)
	c.Camera().Position = mgl64.Vec3{math.NaN(), 0, 0}
	c.Update()

	s := c.Spherical()
	if s.Radius != 1 || s.Phi != math.Pi/2 || s.Theta != 0 {
		t.Errorf("spherical = %+v, want (1, pi/2, 0)", s)
	}
	if !c.Camera().Position.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Errorf("position = %v", c.Camera().Position)
	}
	if c.Pending() != (Spherical{}) {
		t.Error("pending delta survived reset")
	}
}

func TestUpdate_DegenerateOffsetRespectsPolarLimits(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, func(o *Options) {
		o.MinPolarAngle = 2
		o.MaxPolarAngle = 3
	})
	c.Camera().Position = mgl64.Vec3{math.NaN(), 0, 0}
	c.Update()

	lo, hi := 2+PolarEpsilon, 3-PolarEpsilon
	if phi := c.Spherical().Phi; phi < lo || phi > hi {
		t.Errorf("phi = %v, want within [%v, %v]", phi, lo, hi)
	}
	if math.Abs(c.Camera().Position.Sub(c.Target()).Len()-1) > 1e-9 {
		t.Errorf("offset length = %v, want 1", c.Camera().Position.Sub(c.Target()).Len())
	}
}

func TestUpdate_CoincidentCameraAndTarget(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.SetTarget(c.Camera().Position)
	c.Update()

	if r := c.Spherical().Radius; r != c.Options().MinDistance {
		t.Errorf("radius = %v, want %v", r, c.Options().MinDistance)
	}
	if c.Camera().Position.Sub(c.Target()).Len() < MinRadius {
		t.Error("camera still on target")
	}
}

func TestSync(t *testing.T) {
	c := newTestController(mgl64.Vec3{0, 0, 10}, nil)
	c.RotateLeft(0.3)
	c.Wheel(1)

	c.Camera().Position = mgl64.Vec3{0, 50, 0}
	c.SetTarget(mgl64.Vec3{0, 0, 0})
	c.Sync()

	if c.Pending() != (Spherical{}) {
		t.Error("pending input not dropped")
	}
	if math.Abs(c.Spherical().Radius-50) > 1e-12 {
		t.Errorf("radius = %v, want 50", c.Spherical().Radius)
	}

	c.Camera().Position = mgl64.Vec3{0, 0, 50}
	c.Sync()
	c.Update()
	if !c.Camera().Position.ApproxEqualThreshold(mgl64.Vec3{0, 0, 50}, 1e-9) {
		t.Errorf("position drifted to %v", c.Camera().Position)
	}
}
