package focus

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Authority names the single writer of the camera for a tick.
type Authority int

const (
	UserControlled Authority = iota
	Animating
	Following
)

func (a Authority) String() string {
	switch a {
	case UserControlled:
		return "user"
	case Animating:
		return "animating"
	case Following:
		return "following"
	}
	return "unknown"
}

// Session is one flight towards a body, or towards the home view when Body
// is empty.
type Session struct {
	ID            uint64
	Body          string
	StartPosition mgl64.Vec3
	StartTarget   mgl64.Vec3
	// Offset is the camera position relative to the target once arrived. It
	// is fixed when the session starts.
	Offset    mgl64.Vec3
	Start     time.Time
	Duration  time.Duration
	Animating bool

	home mgl64.Vec3
}

// Home reports whether the session returns the camera to its default view.
func (s Session) Home() bool { return s.Body == "" }

// Ease is a cubic ease-out.
func Ease(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// Progress returns elapsed/duration clamped to [0, 1].
func Progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, float64(elapsed)/float64(duration)))
}

// Step evaluates session s after elapsed time with the target currently at
// bodyPos. The destination moves with the body, so interpolation always runs
// from the recorded start to the live destination. On completion the result
// is exactly bodyPos+Offset and bodyPos.
func Step(s Session, bodyPos mgl64.Vec3, elapsed time.Duration) (pos, target mgl64.Vec3, done bool) {
	wantPos := bodyPos.Add(s.Offset)
	p := Progress(elapsed, s.Duration)
	if p >= 1 {
		return wantPos, bodyPos, true
	}
	e := Ease(p)
	pos = lerp(s.StartPosition, wantPos, e)
	target = lerp(s.StartTarget, bodyPos, e)
	return pos, target, false
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
