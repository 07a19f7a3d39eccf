package celestial

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/scene"
)

const (
	DefaultGalacticRate = 0.002
	labelLift           = 5.0
	starLabelLift       = 10.0
)

// Options tunes a System.
type Options struct {
	GalacticRate float64
	PathSegments int
	// Seed drives the initial and reset orbit angles. Zero picks a time seed.
	Seed   int64
	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		GalacticRate: DefaultGalacticRate,
		PathSegments: orbit.DefaultSegments,
		Logger:       zerolog.Nop(),
	}
}

// BodyState is the mutable per-body motion state.
type BodyState struct {
	Angle         float64
	RotationAngle float64
	Node          *scene.Node
}

type entry struct {
	body  Body
	state BodyState
	path  *scene.Polyline
	label *scene.Node
}

// System advances every body of a star system and writes their transforms.
type System struct {
	graph   *scene.Graph
	group   *scene.Node
	entries map[string]*entry
	order   []string

	timeScale    float64
	paused       bool
	frozen       bool
	galacticRate float64

	pathsVisible  bool
	labelsVisible bool

	rng *rand.Rand
	log zerolog.Logger
}

// New builds the hierarchy for bodies under graph's root. Parents must be
// listed before their children.
func New(graph *scene.Graph, bodies []Body, opts Options) (*System, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.PathSegments <= 0 {
		opts.PathSegments = orbit.DefaultSegments
	}

	s := &System{
		graph:         graph,
		group:         scene.NewNode("galactic"),
		entries:       make(map[string]*entry, len(bodies)),
		order:         make([]string, 0, len(bodies)),
		timeScale:     1,
		galacticRate:  opts.GalacticRate,
		pathsVisible:  true,
		labelsVisible: true,
		rng:           rand.New(rand.NewSource(seed)),
		log:           opts.Logger,
	}
	graph.Root.Add(s.group)

	for _, b := range bodies {
		if _, dup := s.entries[b.ID]; dup {
			return nil, fmt.Errorf("celestial: duplicate body %q", b.ID)
		}
		if err := b.Elements.Validate(); err != nil {
			return nil, fmt.Errorf("body %s: %w", b.ID, err)
		}

		e := &entry{body: b, state: BodyState{Node: scene.NewNode(b.ID)}}

		parent := s.group
		if b.Parent != "" {
			p, ok := s.entries[b.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: parent %q of %q", ErrUnknownBody, b.Parent, b.ID)
			}
			parent = p.state.Node
		}
		parent.Add(e.state.Node)

		if b.Kind == Planet {
			e.state.Angle = s.rng.Float64() * 2 * math.Pi
			e.path = scene.NewPolyline(b.ID+"/path", orbit.SamplePath(b.Elements, opts.PathSegments))
			s.group.Add(e.path.Node)
		}
		if b.Kind != Moon {
			e.label = scene.NewNode(b.ID + "/label")
			s.group.Add(e.label)
		}

		s.entries[b.ID] = e
		s.order = append(s.order, b.ID)
		s.apply(e)
	}

	return s, nil
}

// Update advances the system by dt simulated seconds scaled by the time scale.
// A paused system performs no writes.
func (s *System) Update(dt float64) {
	if s.paused {
		return
	}
	speed := s.timeScale * dt

	if !s.frozen {
		s.group.RotationY += s.galacticRate * speed
	}

	for _, id := range s.order {
		e := s.entries[id]
		el := e.body.Elements
		switch e.body.Kind {
		case Star:
			e.state.RotationAngle += el.RotationRate * speed
		default:
			e.state.Angle += el.OrbitRate * speed
			e.state.RotationAngle += el.RotationRate * speed
		}
		s.apply(e)
	}
}

func (s *System) apply(e *entry) {
	n := e.state.Node
	if e.body.Kind != Star {
		n.Position = orbit.PositionAt(e.body.Elements, e.state.Angle)
	}
	n.RotationY = e.state.RotationAngle

	if e.label != nil {
		lift := labelLift
		if e.body.Kind == Star {
			lift = starLabelLift
		}
		e.label.Position = n.Position.Add(mgl64.Vec3{0, e.body.Radius + lift, 0})
	}
}

// Reset re-randomizes planet orbit angles and zeroes every rotation and moon
// angle. Camera state is not touched.
func (s *System) Reset() {
	for _, id := range s.order {
		e := s.entries[id]
		switch e.body.Kind {
		case Planet:
			e.state.Angle = s.rng.Float64() * 2 * math.Pi
		case Moon:
			e.state.Angle = 0
		}
		e.state.RotationAngle = 0
		s.apply(e)
	}
	s.log.Debug().Msg("bodies reset")
}

func (s *System) SetTimeScale(v float64) { s.timeScale = v }
func (s *System) TimeScale() float64     { return s.timeScale }
func (s *System) Paused() bool           { return s.paused }

// TogglePause flips the pause flag and returns the new value.
func (s *System) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// SetFrozen stops or resumes the galactic group rotation.
func (s *System) SetFrozen(v bool) { s.frozen = v }
func (s *System) Frozen() bool     { return s.frozen }

func (s *System) GalacticAngle() float64 { return s.group.RotationY }
func (s *System) Group() *scene.Node     { return s.group }
func (s *System) Graph() *scene.Graph    { return s.graph }

// Bodies returns the static descriptions in hierarchy order.
func (s *System) Bodies() []Body {
	out := make([]Body, len(s.order))
	for i, id := range s.order {
		out[i] = s.entries[id].body
	}
	return out
}

func (s *System) Body(id string) (Body, bool) {
	e, ok := s.entries[id]
	if !ok {
		return Body{}, false
	}
	return e.body, true
}

func (s *System) State(id string) (BodyState, bool) {
	e, ok := s.entries[id]
	if !ok {
		return BodyState{}, false
	}
	return e.state, true
}

// Node returns the transform node of id, or nil.
func (s *System) Node(id string) *scene.Node {
	if e, ok := s.entries[id]; ok {
		return e.state.Node
	}
	return nil
}

// WorldPosition returns the world position of id including every rotating
// parent frame.
func (s *System) WorldPosition(id string) (mgl64.Vec3, bool) {
	e, ok := s.entries[id]
	if !ok || e.state.Node == nil {
		return mgl64.Vec3{}, false
	}
	return e.state.Node.WorldPosition(), true
}

func (s *System) BodyRadius(id string) (float64, bool) {
	e, ok := s.entries[id]
	if !ok {
		return 0, false
	}
	return e.body.Radius, true
}

// OrbitPath returns the trajectory of id in world space, or nil for bodies
// without a drawn path.
func (s *System) OrbitPath(id string) []mgl64.Vec3 {
	e, ok := s.entries[id]
	if !ok || e.path == nil {
		return nil
	}
	return e.path.WorldPoints()
}

// Label returns the label node of id, or nil.
func (s *System) Label(id string) *scene.Node {
	if e, ok := s.entries[id]; ok {
		return e.label
	}
	return nil
}

func (s *System) SetPathsVisible(v bool) {
	s.pathsVisible = v
	for _, e := range s.entries {
		if e.path != nil {
			e.path.Visible = v
		}
	}
}

func (s *System) SetLabelsVisible(v bool) {
	s.labelsVisible = v
	for _, e := range s.entries {
		if e.label != nil {
			e.label.Visible = v
		}
	}
}

func (s *System) PathsVisible() bool  { return s.pathsVisible }
func (s *System) LabelsVisible() bool { return s.labelsVisible }
