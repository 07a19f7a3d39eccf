package orrery

import (
	"time"

	"github.com/san-kum/orrery/internal/focus"
)

// ClickGuard drops clicks that arrive before the previous one has re-armed.
type ClickGuard struct {
	window time.Duration
	clock  focus.Clock
	until  time.Time
}

func NewClickGuard(window time.Duration, clock focus.Clock) *ClickGuard {
	return &ClickGuard{window: window, clock: clock}
}

// Acquire reports whether a click may be processed now and, if so, blocks
// further clicks for the guard window.
func (g *ClickGuard) Acquire() bool {
	now := g.clock.Now()
	if now.Before(g.until) {
		return false
	}
	g.until = now.Add(g.window)
	return true
}
