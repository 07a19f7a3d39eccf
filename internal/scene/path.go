package scene

import "github.com/go-gl/mathgl/mgl64"

// Polyline is a node carrying a line strip in its local frame, used for
// orbit trajectories.
type Polyline struct {
	*Node
	Points []mgl64.Vec3
}

func NewPolyline(name string, points []mgl64.Vec3) *Polyline {
	return &Polyline{Node: NewNode(name), Points: points}
}

// WorldPoints returns the strip transformed into world space.
func (p *Polyline) WorldPoints() []mgl64.Vec3 {
	m := p.WorldMatrix()
	out := make([]mgl64.Vec3, len(p.Points))
	for i, pt := range p.Points {
		out[i] = m.Mul4x1(pt.Vec4(1)).Vec3()
	}
	return out
}
