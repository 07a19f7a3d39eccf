package sim

import "time"

// Stepper is the state advanced once per tick.
type Stepper interface {
	Tick(dt float64)
}

// Tick describes one completed step.
type Tick struct {
	N       int
	Time    float64
	Dt      float64
	Elapsed time.Duration
}

// Hook runs before the stepper on every tick.
type Hook interface {
	BeforeTick(t Tick)
}

type Observer interface {
	OnTick(t Tick)
}

type Metric interface {
	Name() string
	Observe(t Tick)
	Value() float64
	Reset()
}

type Config struct {
	Dt float64
	// Rate is the number of ticks per wall-clock second for Run.
	Rate int
	// Duration bounds a run in simulated seconds. Zero runs until cancelled.
	Duration float64
}

type Result struct {
	Ticks   int
	Time    float64
	Metrics map[string]float64
}
