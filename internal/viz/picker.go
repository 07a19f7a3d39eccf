package viz

import (
	"strings"

	"github.com/san-kum/orrery/internal/celestial"
)

// picker is the body selection menu.
type picker struct {
	open   bool
	cursor int
	bodies []celestial.Body
}

func (p *picker) move(d int) {
	if len(p.bodies) == 0 {
		return
	}
	p.cursor = (p.cursor + d + len(p.bodies)) % len(p.bodies)
}

func (p picker) selected() (celestial.Body, bool) {
	if p.cursor < 0 || p.cursor >= len(p.bodies) {
		return celestial.Body{}, false
	}
	return p.bodies[p.cursor], true
}

func (p picker) View(t Theme, focused string) string {
	var s strings.Builder
	s.WriteString(headerStyle(t).Render("FOCUS") + "\n")
	for i, b := range p.bodies {
		name := b.Name
		if b.ID == focused {
			name += " *"
		}
		kind := KeyHint.Render(b.Kind.String())
		if i == p.cursor {
			s.WriteString(accentStyle(t).Render("> "+name) + "  " + kind + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(name) + "  " + kind + "\n")
		}
	}
	s.WriteString(helpStyle.Render("↑↓:Select  Enter:Focus  Esc:Close"))
	return s.String()
}
