package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldPosition_NestedRotation(t *testing.T) {
	g := NewGraph()
	group := NewNode("group")
	planet := NewNode("planet")
	moon := NewNode("moon")
	g.Root.Add(group)
	group.Add(planet)
	planet.Add(moon)

	planet.Position = mgl64.Vec3{10, 0, 0}
	moon.Position = mgl64.Vec3{2, 0, 0}

	if got := moon.WorldPosition(); !got.ApproxEqualThreshold(mgl64.Vec3{12, 0, 0}, 1e-9) {
		t.Errorf("moon world = %v, want (12,0,0)", got)
	}

	group.RotationY = math.Pi / 2
	got := planet.WorldPosition()
	want := mgl64.HomogRotate3DY(math.Pi / 2).Mul4x1(mgl64.Vec4{10, 0, 0, 1}).Vec3()
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("planet world = %v, want %v", got, want)
	}
	if math.Abs(got.Len()-10) > 1e-9 {
		t.Errorf("rotation changed distance: %v", got.Len())
	}
}

func TestAdd_Reparents(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	a.Add(c)
	b.Add(c)

	if c.Parent() != b {
		t.Fatal("expected c to be reparented to b")
	}
	if len(a.Children()) != 0 {
		t.Errorf("a still has %d children", len(a.Children()))
	}
}

func TestWorldVisible(t *testing.T) {
	g := NewGraph()
	group := NewNode("group")
	leaf := NewNode("leaf")
	g.Root.Add(group)
	group.Add(leaf)

	if !leaf.WorldVisible() {
		t.Fatal("leaf should be visible")
	}
	group.Visible = false
	if leaf.WorldVisible() {
		t.Error("leaf should inherit hidden parent")
	}
}

func TestGraphFind(t *testing.T) {
	g := NewGraph()
	n := NewNode("earth")
	g.Root.Add(n)
	if g.Find("earth") != n {
		t.Error("find failed")
	}
	if g.Find("pluto") != nil {
		t.Error("expected nil for missing node")
	}
}

func TestPolylineWorldPoints(t *testing.T) {
	group := NewNode("group")
	line := NewPolyline("path", []mgl64.Vec3{{1, 0, 0}})
	group.Add(line.Node)
	group.Position = mgl64.Vec3{0, 5, 0}

	pts := line.WorldPoints()
	if !pts[0].ApproxEqualThreshold(mgl64.Vec3{1, 5, 0}, 1e-12) {
		t.Errorf("got %v", pts[0])
	}
}
