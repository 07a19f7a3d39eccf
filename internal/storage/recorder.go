package storage

import (
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/sim"
)

var _ sim.Observer = (*Recorder)(nil)

// Recorder collects engine snapshots as a sim observer.
type Recorder struct {
	snap   func() orrery.Snapshot
	every  int
	frames []orrery.Snapshot
}

// NewRecorder samples snap every n ticks; n below 1 samples every tick.
func NewRecorder(snap func() orrery.Snapshot, n int) *Recorder {
	if n < 1 {
		n = 1
	}
	return &Recorder{snap: snap, every: n}
}

func (r *Recorder) OnTick(t sim.Tick) {
	if t.N%r.every == 0 {
		r.frames = append(r.frames, r.snap())
	}
}

func (r *Recorder) Frames() []orrery.Snapshot { return r.frames }
