package focus

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/san-kum/orrery/internal/camera"
)

// Tracker resolves bodies to their current world position and size.
type Tracker interface {
	WorldPosition(id string) (mgl64.Vec3, bool)
	BodyRadius(id string) (float64, bool)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SimClock is a Clock that only moves when Advance is called. Headless runs
// drive it from the tick loop so flights last simulated seconds.
type SimClock struct {
	now time.Time
}

func NewSimClock(base time.Time) *SimClock { return &SimClock{now: base} }

func (c *SimClock) Now() time.Time          { return c.now }
func (c *SimClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Options configures flights.
type Options struct {
	Duration time.Duration
	// The arrival distance is max(radius*DistanceFactor, MinDistance) along
	// Direction.
	DistanceFactor float64
	MinDistance    float64
	Direction      mgl64.Vec3

	HomePosition mgl64.Vec3
	HomeTarget   mgl64.Vec3

	Clock  Clock
	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Duration:       2 * time.Second,
		DistanceFactor: 6,
		MinDistance:    5,
		Direction:      mgl64.Vec3{0.7, 0.3, 0.7},
		HomePosition:   mgl64.Vec3{0, 200, 400},
		Clock:          systemClock{},
		Logger:         zerolog.Nop(),
	}
}

// Controller decides who drives the camera each tick.
type Controller struct {
	tracker  Tracker
	controls *camera.Controller
	opts     Options
	clock    Clock
	log      zerolog.Logger

	session   *Session
	authority Authority
	nextID    uint64
}

func New(tracker Tracker, controls *camera.Controller, opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &Controller{
		tracker:  tracker,
		controls: controls,
		opts:     opts,
		clock:    clock,
		log:      opts.Logger,
	}
}

func (c *Controller) Authority() Authority { return c.authority }

// Active reports whether any session, including a return home, is running.
func (c *Controller) Active() bool { return c.session != nil }

// Session returns a copy of the active session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Focused returns the body the camera is flying to or following.
func (c *Controller) Focused() (string, bool) {
	if c.session == nil || c.session.Home() {
		return "", false
	}
	return c.session.Body, true
}

// Offset returns the arrival offset used for a body of the given radius.
func (c *Controller) Offset(radius float64) mgl64.Vec3 {
	d := math.Max(radius*c.opts.DistanceFactor, c.opts.MinDistance)
	return c.opts.Direction.Mul(d)
}

// Focus starts a flight to body id, replacing any running session. An
// unresolvable id leaves every state untouched.
func (c *Controller) Focus(id string) error {
	if _, ok := c.tracker.WorldPosition(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}
	radius, ok := c.tracker.BodyRadius(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, id)
	}

	prev, replaced := c.Focused()
	s := c.begin(id, c.Offset(radius))
	c.log.Debug().Str("body", id).Uint64("session", s.ID).
		Bool("replaced", replaced).Str("previous", prev).Msg("focus")
	return nil
}

// Unfocus drops the session and returns the camera to the orbit controller.
// It is a no-op when nothing is focused.
func (c *Controller) Unfocus() {
	if c.session == nil {
		return
	}
	c.log.Debug().Uint64("session", c.session.ID).Str("body", c.session.Body).Msg("unfocus")
	c.session = nil
	c.authority = UserControlled
	c.controls.Sync()
}

// ResetCamera unfocuses and flies back to the home view.
func (c *Controller) ResetCamera() {
	c.Unfocus()
	s := c.begin("", c.opts.HomePosition.Sub(c.opts.HomeTarget))
	s.home = c.opts.HomeTarget
	c.log.Debug().Uint64("session", s.ID).Msg("camera reset")
}

func (c *Controller) begin(body string, offset mgl64.Vec3) *Session {
	c.nextID++
	c.session = &Session{
		ID:            c.nextID,
		Body:          body,
		StartPosition: c.controls.Camera().Position,
		StartTarget:   c.controls.Target(),
		Offset:        offset,
		Start:         c.clock.Now(),
		Duration:      c.opts.Duration,
		Animating:     true,
	}
	c.authority = Animating
	return c.session
}

// Tick gives the camera to exactly one writer.
func (c *Controller) Tick() {
	switch c.authority {
	case Animating:
		c.animate()
	case Following:
		c.follow()
	default:
		c.controls.Update()
	}
}

func (c *Controller) resolve(s *Session) (mgl64.Vec3, bool) {
	if s.Home() {
		return s.home, true
	}
	return c.tracker.WorldPosition(s.Body)
}

func (c *Controller) animate() {
	s := c.session
	bodyPos, ok := c.resolve(s)
	if !ok {
		c.lost(s)
		return
	}
	pos, target, done := Step(*s, bodyPos, c.clock.Now().Sub(s.Start))
	if done {
		c.complete(s.ID, pos, target)
		return
	}
	c.write(pos, target)
}

// complete finishes session id. A session that is no longer the active one
// is dropped.
func (c *Controller) complete(id uint64, pos, target mgl64.Vec3) {
	if c.session == nil || c.session.ID != id {
		c.log.Debug().Uint64("session", id).Msg("stale focus completion dropped")
		return
	}
	c.write(pos, target)
	c.controls.Sync()

	if c.session.Home() {
		c.session = nil
		c.authority = UserControlled
		return
	}
	c.session.Animating = false
	c.authority = Following
	c.log.Debug().Str("body", c.session.Body).Msg("following")
}

func (c *Controller) follow() {
	s := c.session
	bodyPos, ok := c.tracker.WorldPosition(s.Body)
	if !ok {
		c.lost(s)
		return
	}
	c.write(bodyPos.Add(s.Offset), bodyPos)
}

func (c *Controller) lost(s *Session) {
	c.log.Debug().Str("body", s.Body).Msg("focused body lost")
	c.Unfocus()
	c.controls.Update()
}

func (c *Controller) write(pos, target mgl64.Vec3) {
	cam := c.controls.Camera()
	cam.Position = pos
	c.controls.SetTarget(target)
	cam.LookAt(target)
}
