package orrery

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/celestial"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/focus"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/scene"
)

type Options struct {
	Bodies         []celestial.Body
	System         celestial.Options
	Camera         camera.Options
	CameraPosition mgl64.Vec3
	FOV            float64
	Focus          focus.Options
	ClickRearm     time.Duration
	TimeScale      float64
	Logger         zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Bodies:         celestial.Catalog(),
		System:         celestial.DefaultOptions(),
		Camera:         camera.DefaultOptions(),
		CameraPosition: mgl64.Vec3{0, 200, 400},
		FOV:            75,
		Focus:          focus.DefaultOptions(),
		ClickRearm:     100 * time.Millisecond,
		TimeScale:      1,
		Logger:         zerolog.Nop(),
	}
}

// OptionsFromConfig maps a loaded configuration onto engine options.
func OptionsFromConfig(cfg *config.Config, log zerolog.Logger) Options {
	opts := DefaultOptions()
	opts.Logger = log
	opts.TimeScale = cfg.TimeScale

	opts.System.GalacticRate = cfg.GalacticRate
	opts.System.PathSegments = cfg.PathSegments
	opts.System.Seed = cfg.Seed

	cc := cfg.Camera
	opts.CameraPosition = vec3(cc.Position, opts.CameraPosition)
	opts.FOV = cc.FOV
	opts.Camera.EnableDamping = cc.Damping
	opts.Camera.DampingFactor = cc.DampingFactor
	opts.Camera.MinDistance = cc.MinDistance
	opts.Camera.MaxDistance = cc.MaxDistance
	opts.Camera.MinPolarAngle = cc.MinPolar
	opts.Camera.MaxPolarAngle = cc.MaxPolar
	opts.Camera.RotateSpeed = cc.RotateSpeed
	opts.Camera.PanSpeed = cc.PanSpeed

	fc := cfg.Focus
	opts.Focus.Duration = fc.Duration
	opts.Focus.DistanceFactor = fc.DistanceFactor
	opts.Focus.MinDistance = fc.MinDistance
	opts.Focus.Direction = vec3(fc.Direction, opts.Focus.Direction)
	opts.Focus.HomePosition = opts.CameraPosition
	opts.ClickRearm = fc.ClickRearm
	return opts
}

func vec3(v []float64, fallback mgl64.Vec3) mgl64.Vec3 {
	if len(v) != 3 {
		return fallback
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// Engine is the facade handed to UI layers.
type Engine struct {
	graph    *scene.Graph
	system   *celestial.System
	camera   *camera.Camera
	controls *camera.Controller
	focus    *focus.Controller
	guard    *ClickGuard
	log      zerolog.Logger
	// simClock is set when the focus clock is simulated; Tick advances it.
	simClock *focus.SimClock

	ticks    int
	time     float64
	bodyTime float64
}

func New(opts Options) (*Engine, error) {
	log := opts.Logger
	graph := scene.NewGraph()

	sysOpts := opts.System
	sysOpts.Logger = logging.Component(log, "celestial")
	system, err := celestial.New(graph, opts.Bodies, sysOpts)
	if err != nil {
		return nil, err
	}
	if opts.TimeScale > 0 {
		system.SetTimeScale(opts.TimeScale)
	}

	cam := camera.New(opts.CameraPosition)
	if opts.FOV > 0 {
		cam.FOV = opts.FOV
	}
	camOpts := opts.Camera
	camOpts.Logger = logging.Component(log, "camera")
	controls := camera.NewController(cam, camOpts)

	focusOpts := opts.Focus
	focusOpts.Logger = logging.Component(log, "focus")
	if focusOpts.Clock == nil {
		focusOpts.Clock = focus.DefaultOptions().Clock
	}
	fc := focus.New(system, controls, focusOpts)
	simClock, _ := focusOpts.Clock.(*focus.SimClock)

	return &Engine{
		simClock: simClock,
		graph:    graph,
		system:   system,
		camera:   cam,
		controls: controls,
		focus:    fc,
		guard:    NewClickGuard(opts.ClickRearm, focusOpts.Clock),
		log:      log,
	}, nil
}

// Tick advances bodies by dt and then gives the camera to its current
// authority. The galactic frame holds still while a focus session runs so
// the flight is not chasing a rotating frame.
func (e *Engine) Tick(dt float64) {
	if e.simClock != nil {
		e.simClock.Advance(time.Duration(dt * float64(time.Second)))
	}
	e.system.SetFrozen(e.focus.Active())
	if !e.system.Paused() {
		e.bodyTime += dt * e.system.TimeScale()
	}
	e.system.Update(dt)
	e.focus.Tick()
	e.ticks++
	e.time += dt
}

func (e *Engine) SetTimeSpeed(v float64) { e.system.SetTimeScale(v) }
func (e *Engine) TimeSpeed() float64     { return e.system.TimeScale() }

// TogglePause flips body motion on or off and returns true when paused. The
// camera keeps responding while paused.
func (e *Engine) TogglePause() bool {
	paused := e.system.TogglePause()
	e.log.Debug().Bool("paused", paused).Msg("pause toggled")
	return paused
}

func (e *Engine) Paused() bool { return e.system.Paused() }

// Reset re-randomizes the bodies. The camera is left alone.
func (e *Engine) Reset() { e.system.Reset() }

func (e *Engine) ResetCamera() { e.focus.ResetCamera() }

// Focus flies to body id. Unknown ids return focus.ErrUnknownBody and change
// nothing.
func (e *Engine) Focus(id string) error { return e.focus.Focus(id) }

func (e *Engine) Unfocus() { e.focus.Unfocus() }

func (e *Engine) ToggleOrbitPathsVisible(v bool) { e.system.SetPathsVisible(v) }
func (e *Engine) ToggleLabelsVisible(v bool)     { e.system.SetLabelsVisible(v) }

// BodyPosition returns the world position of body id.
func (e *Engine) BodyPosition(id string) (mgl64.Vec3, bool) {
	return e.system.WorldPosition(id)
}

// CurrentlyFocused returns the body being flown to or followed.
func (e *Engine) CurrentlyFocused() (string, bool) { return e.focus.Focused() }

func (e *Engine) Authority() focus.Authority   { return e.focus.Authority() }
func (e *Engine) Camera() *camera.Camera       { return e.camera }
func (e *Engine) Controls() *camera.Controller { return e.controls }
func (e *Engine) Scene() *scene.Graph          { return e.graph }
func (e *Engine) System() *celestial.System    { return e.system }
func (e *Engine) Ticks() int                   { return e.ticks }

// Time is the loop time in seconds. It keeps running while paused.
func (e *Engine) Time() float64 { return e.time }

// BodyTime is the scaled time the bodies have moved through. It stands still
// while paused.
func (e *Engine) BodyTime() float64 { return e.bodyTime }

func (e *Engine) FocusController() *focus.Controller { return e.focus }
