package sim

import (
	"context"
	"fmt"
	"time"
)

// Loop drives a Stepper with a fixed dt.
type Loop struct {
	target    Stepper
	cfg       Config
	hooks     []Hook
	metrics   []Metric
	observers []Observer

	tick int
	time float64
}

func New(target Stepper, cfg Config) *Loop {
	return &Loop{
		target:    target,
		cfg:       cfg,
		hooks:     make([]Hook, 0),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (l *Loop) AddHook(h Hook)         { l.hooks = append(l.hooks, h) }
func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) Ticks() int     { return l.tick }
func (l *Loop) Time() float64  { return l.time }
func (l *Loop) Config() Config { return l.cfg }

func (l *Loop) validate() error {
	if l.cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", l.cfg.Dt)
	}
	if l.cfg.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f", l.cfg.Duration)
	}
	return nil
}

// Step runs one tick: hooks, the stepper, then metrics and observers.
func (l *Loop) Step() Tick {
	t := Tick{N: l.tick, Time: l.time, Dt: l.cfg.Dt}
	for _, h := range l.hooks {
		h.BeforeTick(t)
	}

	start := time.Now()
	l.target.Tick(l.cfg.Dt)
	t.Elapsed = time.Since(start)

	l.tick++
	l.time += l.cfg.Dt

	for _, m := range l.metrics {
		m.Observe(t)
	}
	for _, obs := range l.observers {
		obs.OnTick(t)
	}
	return t
}

func (l *Loop) done() bool {
	return l.cfg.Duration > 0 && l.time >= l.cfg.Duration-l.cfg.Dt/2
}

// Steps runs n ticks as fast as possible. A positive Duration stops it early.
func (l *Loop) Steps(ctx context.Context, n int) (*Result, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	for _, m := range l.metrics {
		m.Reset()
	}

	for i := 0; i < n && !l.done(); i++ {
		select {
		case <-ctx.Done():
			return l.result(), ctx.Err()
		default:
		}
		l.Step()
	}
	return l.result(), nil
}

// Run ticks at Rate per second until ctx is cancelled or Duration elapses.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	if l.cfg.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %d", l.cfg.Rate)
	}
	for _, m := range l.metrics {
		m.Reset()
	}

	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.Rate))
	defer ticker.Stop()

	for !l.done() {
		select {
		case <-ctx.Done():
			return l.result(), ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
	return l.result(), nil
}

func (l *Loop) result() *Result {
	r := &Result{Ticks: l.tick, Time: l.time, Metrics: make(map[string]float64, len(l.metrics))}
	for _, m := range l.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}
