package orrery

import (
	"github.com/go-gl/mathgl/mgl64"
)

type BodySnapshot struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Position mgl64.Vec3 `json:"position"`
	Radius   float64    `json:"radius"`
}

// Snapshot is the observable state after a tick.
type Snapshot struct {
	Tick      int            `json:"tick"`
	// Time is loop time and includes paused ticks; BodyTime does not.
	Time      float64        `json:"time"`
	BodyTime  float64        `json:"body_time"`
	Paused    bool           `json:"paused"`
	TimeScale float64        `json:"time_scale"`
	Authority string         `json:"authority"`
	Focused   string         `json:"focused,omitempty"`
	Camera    mgl64.Vec3     `json:"camera"`
	Target    mgl64.Vec3     `json:"target"`
	Bodies    []BodySnapshot `json:"bodies"`
}

func (e *Engine) Snapshot() Snapshot {
	focused, _ := e.CurrentlyFocused()
	s := Snapshot{
		Tick:      e.ticks,
		Time:      e.time,
		BodyTime:  e.bodyTime,
		Paused:    e.system.Paused(),
		TimeScale: e.system.TimeScale(),
		Authority: e.focus.Authority().String(),
		Focused:   focused,
		Camera:    e.camera.Position,
		Target:    e.controls.Target(),
	}
	bodies := e.system.Bodies()
	s.Bodies = make([]BodySnapshot, 0, len(bodies))
	for _, b := range bodies {
		pos, _ := e.system.WorldPosition(b.ID)
		s.Bodies = append(s.Bodies, BodySnapshot{
			ID:       b.ID,
			Kind:     b.Kind.String(),
			Position: pos,
			Radius:   b.Radius,
		})
	}
	return s
}
