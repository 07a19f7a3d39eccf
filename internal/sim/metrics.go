package sim

import "time"

// TickCost tracks the mean wall-clock cost of a tick in milliseconds.
type TickCost struct {
	count int
	total time.Duration
	max   time.Duration
}

func (m *TickCost) Name() string { return "tick_ms" }

func (m *TickCost) Observe(t Tick) {
	m.count++
	m.total += t.Elapsed
	if t.Elapsed > m.max {
		m.max = t.Elapsed
	}
}

func (m *TickCost) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.total) / float64(m.count) / float64(time.Millisecond)
}

func (m *TickCost) Max() time.Duration { return m.max }

func (m *TickCost) Reset() {
	m.count = 0
	m.total = 0
	m.max = 0
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Tick)

func (f ObserverFunc) OnTick(t Tick) { f(t) }

// HookFunc adapts a function to Hook.
type HookFunc func(Tick)

func (f HookFunc) BeforeTick(t Tick) { f(t) }
