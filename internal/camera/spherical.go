package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spherical is a point on a sphere. Phi is the polar angle from +Y and Theta
// the azimuth around Y measured from +Z.
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

// SphericalFromVec3 converts a cartesian offset. A zero vector maps to the
// zero triple.
func SphericalFromVec3(v mgl64.Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math.Atan2(v.X(), v.Z()),
		Phi:    math.Acos(mgl64.Clamp(v.Y()/r, -1, 1)),
	}
}

// Vec3 converts back to a cartesian offset.
func (s Spherical) Vec3() mgl64.Vec3 {
	sinPhi := math.Sin(s.Phi) * s.Radius
	return mgl64.Vec3{
		sinPhi * math.Sin(s.Theta),
		math.Cos(s.Phi) * s.Radius,
		sinPhi * math.Cos(s.Theta),
	}
}

func (s Spherical) IsNaN() bool {
	return math.IsNaN(s.Radius) || math.IsNaN(s.Phi) || math.IsNaN(s.Theta)
}
