// Package automation runs scripted camera and simulation actions against an
// engine on a tick schedule.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/sim"
)

var ErrUnknownAction = errors.New("automation: unknown action")

// Target is the engine surface actions operate on.
type Target interface {
	sim.Stepper
	Focus(id string) error
	Unfocus()
	Reset()
	ResetCamera()
	TogglePause() bool
	SetTimeSpeed(v float64)
	ToggleOrbitPathsVisible(v bool)
	ToggleLabelsVisible(v bool)
	Click(x, y float64) (string, bool)
	Controls() *camera.Controller
}

// Scenario defines a scripted session
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Duration    float64  `yaml:"duration"`
	Seed        int64    `yaml:"seed"`
	Actions     []Action `yaml:"actions"`
}

// Action is one scripted input applied at simulated time At.
type Action struct {
	At    float64 `yaml:"at" json:"at,omitempty"`
	Do    string  `yaml:"do" json:"do"`
	Body  string  `yaml:"body,omitempty" json:"body,omitempty"`
	Value float64 `yaml:"value,omitempty" json:"value,omitempty"`
	X     float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y     float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Show  *bool   `yaml:"show,omitempty" json:"show,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(scenario.Actions, func(i, j int) bool {
		return scenario.Actions[i].At < scenario.Actions[j].At
	})
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("scenario %q: duration must be positive", s.Name)
	}
	for i, a := range s.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
		if a.At < 0 || a.At > s.Duration {
			return fmt.Errorf("action %d: at %v outside [0, %v]", i+1, a.At, s.Duration)
		}
	}
	return nil
}

func (a Action) Validate() error {
	switch a.Do {
	case "focus":
		if a.Body == "" {
			return errors.New("focus needs a body")
		}
	case "speed":
		if a.Value < 0 || math.IsNaN(a.Value) {
			return fmt.Errorf("speed %v", a.Value)
		}
	case "zoom":
		if a.Value <= 0 {
			return fmt.Errorf("zoom factor %v", a.Value)
		}
	case "orbits", "labels":
		if a.Show == nil {
			return fmt.Errorf("%s needs show", a.Do)
		}
	case "unfocus", "reset", "reset_camera", "pause", "rotate", "pan", "click":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Do)
	}
	return nil
}

// Apply performs a on t.
func Apply(t Target, a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	switch a.Do {
	case "focus":
		return t.Focus(a.Body)
	case "unfocus":
		t.Unfocus()
	case "reset":
		t.Reset()
	case "reset_camera":
		t.ResetCamera()
	case "pause":
		t.TogglePause()
	case "speed":
		t.SetTimeSpeed(a.Value)
	case "rotate":
		t.Controls().RotateLeft(a.X)
		t.Controls().RotateUp(a.Y)
	case "zoom":
		t.Controls().Zoom(a.Value)
	case "pan":
		t.Controls().Pan(a.X, a.Y)
	case "click":
		t.Click(a.X, a.Y)
	case "orbits":
		t.ToggleOrbitPathsVisible(*a.Show)
	case "labels":
		t.ToggleLabelsVisible(*a.Show)
	}
	return nil
}

// Runner fires scenario actions as simulated time reaches them.
type Runner struct {
	target  Target
	actions []Action
	next    int
	failed  int
	log     zerolog.Logger
}

func NewRunner(t Target, s *Scenario, log zerolog.Logger) *Runner {
	return &Runner{target: t, actions: s.Actions, log: log}
}

// BeforeTick applies every pending action due at or before tk.Time.
func (r *Runner) BeforeTick(tk sim.Tick) {
	for r.next < len(r.actions) && r.actions[r.next].At <= tk.Time+tk.Dt/2 {
		a := r.actions[r.next]
		r.next++
		if err := Apply(r.target, a); err != nil {
			r.failed++
			r.log.Warn().Err(err).Str("do", a.Do).Float64("at", a.At).Msg("action failed")
			continue
		}
		r.log.Debug().Str("do", a.Do).Float64("at", a.At).Int("tick", tk.N).Msg("action")
	}
}

func (r *Runner) Applied() int { return r.next }
func (r *Runner) Failed() int  { return r.failed }
func (r *Runner) Done() bool   { return r.next >= len(r.actions) }

// RunScenario plays s headless against t with a fixed dt.
func RunScenario(ctx context.Context, t Target, s *Scenario, dt float64, log zerolog.Logger, observers ...sim.Observer) (*sim.Result, *Runner, error) {
	loop := sim.New(t, sim.Config{Dt: dt, Duration: s.Duration})
	runner := NewRunner(t, s, log)
	loop.AddHook(runner)
	for _, o := range observers {
		loop.AddObserver(o)
	}
	loop.AddMetric(&sim.TickCost{})

	steps := int(math.Ceil(s.Duration/dt)) + 1
	result, err := loop.Steps(ctx, steps)
	return result, runner, err
}
