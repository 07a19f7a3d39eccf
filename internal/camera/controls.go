package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

const (
	// PolarEpsilon keeps the polar angle strictly inside its limits.
	PolarEpsilon = 0.01
	// MinRadius is the floor applied before the distance limits.
	MinRadius = 0.01
	// WheelStep is the zoom factor applied per wheel notch.
	WheelStep = 1.1
)

// Options configures a Controller.
type Options struct {
	EnableDamping bool
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64
	MinPolarAngle float64
	MaxPolarAngle float64
	RotateSpeed   float64
	PanSpeed      float64
	EnableRotate  bool
	EnableZoom    bool
	EnablePan     bool
	Logger        zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		EnableDamping: true,
		DampingFactor: 0.05,
		MinDistance:   1,
		MaxDistance:   2000,
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		RotateSpeed:   0.2,
		PanSpeed:      0.3,
		EnableRotate:  true,
		EnableZoom:    true,
		EnablePan:     true,
		Logger:        zerolog.Nop(),
	}
}

// Controller orbits a camera around a target point.
type Controller struct {
	cam  *Camera
	opts Options
	log  zerolog.Logger

	target    mgl64.Vec3
	spherical Spherical
	delta     Spherical
	scale     float64
	panOffset mgl64.Vec3

	rotating, zooming, panning bool

	rotateStart mgl64.Vec2
	panStart    mgl64.Vec2
	pinchStart  float64

	width, height float64
}

// NewController attaches a controller to cam with the origin as target and
// runs one Update so the camera starts in a legal state.
func NewController(cam *Camera, opts Options) *Controller {
	c := &Controller{
		cam:    cam,
		opts:   opts,
		log:    opts.Logger,
		scale:  1,
		width:  1280,
		height: 720,
	}
	c.Update()
	return c
}

func (c *Controller) Camera() *Camera        { return c.cam }
func (c *Controller) Options() Options       { return c.opts }
func (c *Controller) Target() mgl64.Vec3     { return c.target }
func (c *Controller) Spherical() Spherical   { return c.spherical }
func (c *Controller) SetTarget(t mgl64.Vec3) { c.target = t }

// Pending returns the unconsumed angular delta.
func (c *Controller) Pending() Spherical { return c.delta }

func (c *Controller) Rotating() bool { return c.rotating }
func (c *Controller) Zooming() bool  { return c.zooming }
func (c *Controller) Panning() bool  { return c.panning }

// SetViewport sets the element size used to normalize pointer deltas.
func (c *Controller) SetViewport(width, height float64) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
	c.cam.Aspect = c.width / c.height
}

func (c *Controller) polarLimits() (float64, float64) {
	return c.opts.MinPolarAngle + PolarEpsilon, c.opts.MaxPolarAngle - PolarEpsilon
}

// RotateLeft queues an azimuth change.
func (c *Controller) RotateLeft(angle float64) {
	c.delta.Theta -= angle
}

// RotateUp queues a polar change. A change that would carry the current polar
// angle past its limits is rejected and clears the pending polar delta.
func (c *Controller) RotateUp(angle float64) {
	current := SphericalFromVec3(c.cam.Position.Sub(c.target))
	phi := current.Phi - angle
	lo, hi := c.polarLimits()
	if phi >= lo && phi <= hi {
		c.delta.Phi -= angle
	} else {
		c.delta.Phi = 0
	}
}

// Zoom multiplies the pending radius scale.
func (c *Controller) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	c.scale *= factor
}

// Pan queues a target translation of (dx, dy) screen units along the camera's
// right and up axes.
func (c *Controller) Pan(dx, dy float64) {
	right, up, _ := c.cam.Basis()
	left := right.Mul(-dx * c.opts.PanSpeed)
	upward := up.Mul(dy * c.opts.PanSpeed)
	c.panOffset = c.panOffset.Add(left).Add(upward)
}

// RotateStart begins a mouse rotation at (x, y).
func (c *Controller) RotateStart(x, y float64) {
	if !c.opts.EnableRotate {
		return
	}
	c.rotating = true
	c.rotateStart = mgl64.Vec2{x, y}
}

func (c *Controller) RotateMove(x, y float64) {
	if !c.rotating {
		return
	}
	end := mgl64.Vec2{x, y}
	d := end.Sub(c.rotateStart)
	c.RotateLeft(math.Pi * d.X() / c.width * c.opts.RotateSpeed * 0.5)
	c.RotateUp(math.Pi * d.Y() / c.height * c.opts.RotateSpeed * 0.5)
	c.rotateStart = end
}

// PanStart begins a drag pan at (x, y).
func (c *Controller) PanStart(x, y float64) {
	if !c.opts.EnablePan {
		return
	}
	c.panning = true
	c.panStart = mgl64.Vec2{x, y}
}

func (c *Controller) PanMove(x, y float64) {
	if !c.panning {
		return
	}
	end := mgl64.Vec2{x, y}
	d := end.Sub(c.panStart)
	c.Pan(d.X(), d.Y())
	c.panStart = end
}

// PointerUp ends any mouse rotation or pan.
func (c *Controller) PointerUp() {
	c.rotating = false
	c.panning = false
}

// Wheel zooms by one step. Positive deltaY moves away from the target.
func (c *Controller) Wheel(deltaY float64) {
	if !c.opts.EnableZoom {
		return
	}
	if deltaY > 0 {
		c.scale *= WheelStep
	} else {
		c.scale /= WheelStep
	}
}

// TouchStart begins a one finger rotation or a two finger pinch.
func (c *Controller) TouchStart(touches []mgl64.Vec2) {
	switch len(touches) {
	case 1:
		if c.opts.EnableRotate {
			c.rotating = true
			c.rotateStart = touches[0]
		}
	case 2:
		if c.opts.EnableZoom {
			c.zooming = true
			c.pinchStart = touches[0].Sub(touches[1]).Len()
		}
	}
}

func (c *Controller) TouchMove(touches []mgl64.Vec2) {
	switch {
	case len(touches) == 1 && c.rotating:
		d := touches[0].Sub(c.rotateStart)
		c.RotateLeft(2 * math.Pi * d.X() / c.width * c.opts.RotateSpeed)
		c.RotateUp(2 * math.Pi * d.Y() / c.height * c.opts.RotateSpeed)
		c.rotateStart = touches[0]
	case len(touches) == 2 && c.zooming:
		dist := touches[0].Sub(touches[1]).Len()
		if c.pinchStart > 0 {
			c.Zoom(dist / c.pinchStart)
		}
		c.pinchStart = dist
	}
}

func (c *Controller) TouchEnd() {
	c.rotating = false
	c.zooming = false
	c.panning = false
}

// Update consumes the pending input and writes the camera.
func (c *Controller) Update() {
	s := SphericalFromVec3(c.cam.Position.Sub(c.target))
	s.Theta += c.delta.Theta
	s.Phi += c.delta.Phi
	s.Radius *= c.scale

	lo, hi := c.polarLimits()
	switch {
	case s.Phi < lo:
		s.Phi = lo
		c.delta.Phi = 0
	case s.Phi > hi:
		s.Phi = hi
		c.delta.Phi = 0
	}

	if s.Radius < MinRadius {
		s.Radius = MinRadius
	}
	s.Radius = c.clampRadius(s.Radius)

	if t := c.target.Add(c.panOffset); finite(t) {
		c.target = t
	}

	offset := s.Vec3()
	if l := offset.Len(); !(l >= MinRadius) {
		c.log.Debug().Float64("length", l).Msg("degenerate camera offset reset")
		s = Spherical{Radius: c.clampRadius(1), Phi: math.Max(lo, math.Min(hi, math.Pi/2))}
		offset = s.Vec3()
		c.delta = Spherical{}
	}

	c.cam.Position = c.target.Add(offset)
	c.cam.LookAt(c.target)
	c.spherical = s

	if c.opts.EnableDamping {
		k := 1 - c.opts.DampingFactor
		c.delta.Theta *= k
		c.delta.Phi *= k
	} else {
		c.delta = Spherical{}
	}

	c.scale = 1
	c.panOffset = mgl64.Vec3{}
}

// Sync rereads the spherical state from the camera and drops pending input.
// Call it after something other than the controller moved the camera.
func (c *Controller) Sync() {
	c.spherical = SphericalFromVec3(c.cam.Position.Sub(c.target))
	c.delta = Spherical{}
	c.scale = 1
	c.panOffset = mgl64.Vec3{}
}

func (c *Controller) clampRadius(r float64) float64 {
	return math.Max(c.opts.MinDistance, math.Min(c.opts.MaxDistance, r))
}

func finite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
