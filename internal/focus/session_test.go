package focus

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestEase(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.5, 0.875},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Ease(tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Ease(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		duration time.Duration
		want     float64
	}{
		{"start", 0, time.Second, 0},
		{"half", time.Second, 2 * time.Second, 0.5},
		{"overrun", 5 * time.Second, 2 * time.Second, 1},
		{"clock skew", -time.Second, time.Second, 0},
		{"zero duration", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.elapsed, tt.duration); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStep(t *testing.T) {
	s := Session{
		StartPosition: mgl64.Vec3{0, 200, 400},
		StartTarget:   mgl64.Vec3{},
		Offset:        mgl64.Vec3{7, 3, 7},
		Duration:      2 * time.Second,
	}
	body := mgl64.Vec3{100, 0, 0}

	pos, target, done := Step(s, body, 0)
	if done || pos != s.StartPosition || target != s.StartTarget {
		t.Errorf("Step(0) = %v, %v, %v", pos, target, done)
	}

	pos, target, done = Step(s, body, time.Second)
	wantPos := mgl64.Vec3{107 * 0.875, 200 + (3-200)*0.875, 400 + (7-400)*0.875}
	if done || !pos.ApproxEqualThreshold(wantPos, 1e-9) {
		t.Errorf("Step(1s) pos = %v, want %v", pos, wantPos)
	}
	if !target.ApproxEqualThreshold(mgl64.Vec3{87.5, 0, 0}, 1e-9) {
		t.Errorf("Step(1s) target = %v", target)
	}

	moved := mgl64.Vec3{0, 0, 50}
	pos, target, done = Step(s, moved, 3*time.Second)
	if !done || pos != moved.Add(s.Offset) || target != moved {
		t.Errorf("Step(done) = %v, %v, %v", pos, target, done)
	}
}
