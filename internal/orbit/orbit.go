package orbit

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSegments is the number of path segments used for trajectory display.
const DefaultSegments = 200

// Elements describes a prescribed orbit. They are immutable once loaded.
type Elements struct {
	SemiMajorAxis float64 `yaml:"semi_major_axis"`
	Eccentricity  float64 `yaml:"eccentricity"`
	// Inclination is in degrees; zero means the orbit lies in the reference plane.
	Inclination  float64 `yaml:"inclination"`
	OrbitRate    float64 `yaml:"orbit_rate"`
	RotationRate float64 `yaml:"rotation_rate"`
}

// Validate reports whether the elements describe a closed orbit.
func (el Elements) Validate() error {
	if math.IsNaN(el.SemiMajorAxis) || el.SemiMajorAxis < 0 {
		return fmt.Errorf("%w: semi-major axis %v", ErrInvalidElements, el.SemiMajorAxis)
	}
	if math.IsNaN(el.Eccentricity) || el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return fmt.Errorf("%w: eccentricity %v not in [0,1)", ErrInvalidElements, el.Eccentricity)
	}
	return nil
}

// Radius returns the focal distance at true anomaly theta.
func Radius(el Elements, theta float64) float64 {
	e := el.Eccentricity
	return el.SemiMajorAxis * (1 - e*e) / (1 + e*math.Cos(theta))
}

// PositionAt returns the position relative to the orbit focus at angle theta.
// The planar point lies in the XZ plane and is tilted about the X axis by the
// inclination.
func PositionAt(el Elements, theta float64) mgl64.Vec3 {
	r := Radius(el, theta)
	x := r * math.Cos(theta)
	z := r * math.Sin(theta)
	if el.Inclination == 0 {
		return mgl64.Vec3{x, 0, z}
	}
	inc := mgl64.DegToRad(el.Inclination)
	return mgl64.Vec3{x, z * math.Sin(inc), z * math.Cos(inc)}
}

// SampleAngle returns the angle of sample k on an n-segment path.
func SampleAngle(k, n int) float64 {
	return 2 * math.Pi * float64(k) / float64(n)
}

// SamplePath returns n+1 points closing the orbit, evaluated with PositionAt.
func SamplePath(el Elements, n int) []mgl64.Vec3 {
	if n <= 0 {
		n = DefaultSegments
	}
	points := make([]mgl64.Vec3, n+1)
	for k := 0; k <= n; k++ {
		points[k] = PositionAt(el, SampleAngle(k, n))
	}
	return points
}

// Periapsis returns the closest focal distance of the orbit.
func Periapsis(el Elements) float64 {
	return el.SemiMajorAxis * (1 - el.Eccentricity)
}

// Apoapsis returns the farthest focal distance of the orbit.
func Apoapsis(el Elements) float64 {
	return el.SemiMajorAxis * (1 + el.Eccentricity)
}
