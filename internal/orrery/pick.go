package orrery

import (
	"math"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/celestial"
)

// Pick returns the nearest body under the NDC point (x, y).
func (e *Engine) Pick(x, y float64) (celestial.Body, bool) {
	origin, dir := e.camera.Ray(x, y)

	var (
		best  celestial.Body
		bestT = math.Inf(1)
		hit   bool
	)
	for _, b := range e.system.Bodies() {
		pos, ok := e.system.WorldPosition(b.ID)
		if !ok {
			continue
		}
		t, ok := camera.IntersectSphere(origin, dir, pos, b.Radius)
		if ok && t < bestT {
			best, bestT, hit = b, t, true
		}
	}
	return best, hit
}

// Click handles a primary click at the NDC point (x, y). Hitting a planet or
// the star focuses it, hitting a moon does nothing, and clicking empty space
// while focused unfocuses. Clicks inside the re-arm window of the previous
// one are dropped and report false.
func (e *Engine) Click(x, y float64) (string, bool) {
	if !e.guard.Acquire() {
		return "", false
	}

	b, hit := e.Pick(x, y)
	switch {
	case hit && b.Kind == celestial.Moon:
		return "", true
	case hit:
		if err := e.Focus(b.ID); err != nil {
			e.log.Debug().Err(err).Msg("click focus")
			return "", true
		}
		return b.ID, true
	}

	if _, ok := e.CurrentlyFocused(); ok {
		e.Unfocus()
	}
	return "", true
}
