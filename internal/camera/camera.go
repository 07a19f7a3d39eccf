package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// New returns a camera at position looking at the origin.
func New(position mgl64.Vec3) *Camera {
	return &Camera{
		Position: position,
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      75,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      10000,
	}
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Target = target
}

// Basis returns the camera's right, up and backward axes in world space.
// When the view direction is parallel to Up the backward axis is nudged so
// the basis stays orthonormal.
func (c *Camera) Basis() (right, up, back mgl64.Vec3) {
	back = c.Position.Sub(c.Target)
	if back.Len() == 0 {
		back = mgl64.Vec3{0, 0, 1}
	}
	back = back.Normalize()

	right = c.Up.Cross(back)
	if right.Len() == 0 {
		if math.Abs(c.Up.Z()) == 1 {
			back[0] += 0.0001
		} else {
			back[2] += 0.0001
		}
		back = back.Normalize()
		right = c.Up.Cross(back)
	}
	right = right.Normalize()
	up = back.Cross(right)
	return right, up, back
}

func (c *Camera) View() mgl64.Mat4 {
	_, up, _ := c.Basis()
	return mgl64.LookAtV(c.Position, c.Target, up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Project maps a world point to normalized device coordinates. ok is false
// for points behind the camera.
func (c *Camera) Project(p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := c.Projection().Mul4(c.View()).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// Ray returns a world-space ray through the NDC point (x, y), both in [-1, 1]
// with +y up.
func (c *Camera) Ray(x, y float64) (origin, dir mgl64.Vec3) {
	right, up, back := c.Basis()
	tanHalf := math.Tan(mgl64.DegToRad(c.FOV) / 2)
	dir = back.Mul(-1).
		Add(right.Mul(x * tanHalf * c.Aspect)).
		Add(up.Mul(y * tanHalf))
	return c.Position, dir.Normalize()
}

// IntersectSphere returns the distance along a normalized ray to the first
// hit with a sphere, if any.
func IntersectSphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	disc := b*b - (oc.Dot(oc) - radius*radius)
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
