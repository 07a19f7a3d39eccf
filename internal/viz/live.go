package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orrery/internal/celestial"
	"github.com/san-kum/orrery/internal/focus"
	"github.com/san-kum/orrery/internal/orrery"
)

const (
	statsWidth      = 42
	defaultCols     = 80
	defaultRows     = 24
	historyCapacity = 300

	keyRotate = 0.05
	keyPan    = 5.0
	maxSpeed  = 64.0
)

type TickMsg time.Time

type press struct {
	col, row int
	active   bool
	moved    bool
}

// Model drives an engine from the terminal and draws it on a braille canvas.
type Model struct {
	engine    *orrery.Engine
	dt        float64
	interval  time.Duration
	canvas    *Canvas
	theme     Theme
	focusable []celestial.Body
	distance  []float64
	picker    picker
	press     press
	showHelp  bool
}

// NewModel ticks e by dt at rate frames per second.
func NewModel(e *orrery.Engine, dt float64, rate int) Model {
	if rate <= 0 {
		rate = 60
	}
	m := Model{
		engine:   e,
		dt:       dt,
		interval: time.Second / time.Duration(rate),
		theme:    Themes[0],
		distance: make([]float64, 0, historyCapacity),
		picker:   picker{bodies: e.System().Bodies()},
	}
	for _, b := range e.System().Bodies() {
		if b.Kind != celestial.Moon {
			m.focusable = append(m.focusable, b)
		}
	}
	m.resize(defaultCols, defaultRows)
	return m
}

func (m *Model) SetTheme(name string) { m.theme = GetTheme(name) }

func (m Model) Canvas() *Canvas { return m.canvas }

// resize fits the canvas to cols x rows cells and keeps the camera aspect in
// step with it.
func (m *Model) resize(cols, rows int) {
	m.canvas = NewCanvas(cols, rows)
	m.engine.Camera().Aspect = float64(m.canvas.PixelWidth()) / float64(m.canvas.PixelHeight())
	m.engine.Controls().SetViewport(float64(m.canvas.Width), float64(m.canvas.Height))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the engine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-4, msg.Height-1)
	case tea.KeyMsg:
		if m.picker.open {
			m.pickerKey(msg)
			return m, nil
		}
		return m.key(msg)
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controls := m.engine.Controls()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.engine.TogglePause()
	case "r":
		m.engine.Reset()
	case "c":
		m.engine.ResetCamera()
	case "esc":
		m.engine.Unfocus()
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "b":
		m.picker.open = true
	case "left":
		controls.RotateLeft(-keyRotate)
	case "right":
		controls.RotateLeft(keyRotate)
	case "up":
		controls.RotateUp(-keyRotate)
	case "down":
		controls.RotateUp(keyRotate)
	case "+", "=":
		controls.Wheel(-1)
	case "-", "_":
		controls.Wheel(1)
	case "w":
		controls.Pan(0, keyPan)
	case "s":
		controls.Pan(0, -keyPan)
	case "a":
		controls.Pan(keyPan, 0)
	case "d":
		controls.Pan(-keyPan, 0)
	case "o":
		m.engine.ToggleOrbitPathsVisible(!m.engine.System().PathsVisible())
	case "l":
		m.engine.ToggleLabelsVisible(!m.engine.System().LabelsVisible())
	case "[":
		m.engine.SetTimeSpeed(m.engine.TimeSpeed() / 2)
	case "]":
		m.engine.SetTimeSpeed(math.Min(maxSpeed, math.Max(m.engine.TimeSpeed()*2, 0.125)))
	case "t":
		m.theme = NextTheme(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	default:
		if k := msg.String(); len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
			if i := int(k[0] - '0'); i < len(m.focusable) {
				_ = m.engine.Focus(m.focusable[i].ID)
			}
		}
	}
	return m, nil
}

func (m *Model) pickerKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.picker.move(-1)
	case "down", "j":
		m.picker.move(1)
	case "enter":
		if b, ok := m.picker.selected(); ok {
			_ = m.engine.Focus(b.ID)
		}
		m.picker.open = false
	case "esc", "b", "q":
		m.picker.open = false
	}
}

// cycleFocus moves focus d places through the star and planets.
func (m *Model) cycleFocus(d int) {
	n := len(m.focusable)
	if n == 0 {
		return
	}
	next := 0
	if id, ok := m.engine.CurrentlyFocused(); ok {
		for i, b := range m.focusable {
			if b.ID == id {
				next = (i + d + n) % n
				break
			}
		}
	}
	_ = m.engine.Focus(m.focusable[next].ID)
}

// mouse maps terminal mouse events onto the orbit controls. A press and
// release without motion is a click.
func (m *Model) mouse(msg tea.MouseMsg) {
	col, row := msg.X-canvasStyle.GetPaddingLeft(), msg.Y
	controls := m.engine.Controls()
	x, y := float64(col), float64(row)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		controls.Wheel(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		controls.Wheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.press = press{col: col, row: row, active: true}
		controls.RotateStart(x, y)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		controls.PanStart(x, y)
	case msg.Action == tea.MouseActionMotion:
		if m.press.active && (col != m.press.col || row != m.press.row) {
			m.press.moved = true
		}
		controls.RotateMove(x, y)
		controls.PanMove(x, y)
	case msg.Action == tea.MouseActionRelease:
		controls.PointerUp()
		if m.press.active && !m.press.moved && col >= 0 && col < m.canvas.Width {
			m.engine.Click(ToNDC(m.canvas, col, row))
		}
		m.press = press{}
	}
}

func (m *Model) step() {
	m.engine.Tick(m.dt)

	cam := m.engine.Camera()
	d := cam.Position.Sub(m.engine.Controls().Target()).Len()
	if len(m.distance) >= historyCapacity {
		m.distance = m.distance[1:]
	}
	m.distance = append(m.distance, d)

	Render(m.canvas, m.engine)
}

func (m Model) status() string {
	status := "RUNNING"
	if m.engine.Paused() {
		status = "PAUSED"
	}
	return statusStyle(m.theme, m.engine.Paused()).Render(status)
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())
	focused, _ := m.engine.CurrentlyFocused()

	var side string
	if m.picker.open {
		side = m.picker.View(m.theme, focused)
	} else {
		side = m.stats(focused)
	}
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(side))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) stats(focused string) string {
	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	s.WriteString(headerStyle(m.theme).Render("ORRERY") + "\n")
	s.WriteString(m.status() + "\n\n")

	row("Time", fmt.Sprintf("%.2fs", m.engine.Time()))
	row("Speed", fmt.Sprintf("x%.3g", m.engine.TimeSpeed()))
	row("Camera", m.engine.Authority().String())

	if focused != "" {
		b, _ := m.engine.System().Body(focused)
		s.WriteString(labelStyle.Render("Focus") + accentStyle(m.theme).Render(b.Name) + "\n")
	}
	if sess, ok := m.engine.FocusController().Session(); ok && sess.Animating {
		p := focus.Progress(time.Since(sess.Start), sess.Duration)
		s.WriteString(labelStyle.Render("Flight") + ProgressBar(p, 16) + "\n")
	}

	sph := m.engine.Controls().Spherical()
	row("Distance", fmt.Sprintf("%.1f", sph.Radius))
	row("Polar", fmt.Sprintf("%.1f°", sph.Phi*180/math.Pi))
	row("Azimuth", fmt.Sprintf("%.1f°", sph.Theta*180/math.Pi))
	row("Orbits", onOff(m.engine.System().PathsVisible()))
	row("Labels", onOff(m.engine.System().LabelsVisible()))

	if len(m.distance) > 1 {
		chart := asciigraph.Plot(m.distance, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Camera distance"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if focused != "" {
		b, _ := m.engine.System().Body(focused)
		s.WriteString(info(b))
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset C:Home Q:Quit\nTab:Next B:Bodies Esc:Unfocus ?:Help"))
	return s.String()
}

func info(b celestial.Body) string {
	var s strings.Builder
	add := func(label, value string) {
		if value != "" {
			s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
		}
	}
	add("Type", b.Info.Type)
	add("Diameter", b.Info.Diameter)
	add("Mass", b.Info.Mass)
	add("Distance", b.Info.Distance)
	add("Period", b.Info.Period)
	add("Temp", b.Info.Temperature)
	return s.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume motion      ║
║  R        - Re-randomize bodies      ║
║  C        - Fly camera home          ║
║  Esc      - Unfocus                  ║
║  Tab      - Focus next body          ║
║  0-9      - Focus star or planet     ║
║  B        - Body list                ║
║  Arrows   - Orbit camera             ║
║  +/-      - Zoom                     ║
║  WASD     - Pan                      ║
║  O / L    - Toggle orbits / labels   ║
║  [ ]      - Slower / faster          ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
