// Package scene implements the transform hierarchy the engine writes into.
//
// Nodes carry a local position, a rotation about the vertical axis and a
// uniform scale. World transforms are composed by walking the parent chain,
// so a body nested inside a rotating group reports its true world position.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Node is a mutable transform with parent-child nesting.
type Node struct {
	Name      string
	Position  mgl64.Vec3
	RotationY float64
	Scale     float64
	Visible   bool

	parent   *Node
	children []*Node
}

// NewNode returns a visible identity node.
func NewNode(name string) *Node {
	return &Node{Name: name, Scale: 1, Visible: true}
}

// Add reparents child under n.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It is a no-op if child is not a direct child.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// LocalMatrix returns translate * rotateY * scale.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	s := n.Scale
	if s == 0 {
		s = 1
	}
	return mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(n.RotationY)).
		Mul4(mgl64.Scale3D(s, s, s))
}

// WorldMatrix composes local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world coordinates.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// LocalToWorld transforms a point from n's local frame into world space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

// WorldVisible reports whether n and every ancestor are visible.
func (n *Node) WorldVisible() bool {
	for c := n; c != nil; c = c.parent {
		if !c.Visible {
			return false
		}
	}
	return true
}

// Traverse visits n and its descendants depth-first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Graph owns the root of a hierarchy.
type Graph struct {
	Root *Node
}

func NewGraph() *Graph {
	return &Graph{Root: NewNode("root")}
}

// Find returns the first node named name.
func (g *Graph) Find(name string) *Node {
	var found *Node
	g.Root.Traverse(func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}
