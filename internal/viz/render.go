package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/orrery"
)

const maxDiscRadius = 24

// ScreenPoint is a world point projected onto a canvas, in dots.
type ScreenPoint struct {
	X, Y  int
	Depth float64
}

// Project maps p through cam onto c. ok is false behind the camera or past
// the far plane.
func Project(cam *camera.Camera, c *Canvas, p mgl64.Vec3) (ScreenPoint, bool) {
	ndc, ok := cam.Project(p)
	if !ok || ndc.Z() > 1 {
		return ScreenPoint{}, false
	}
	return ScreenPoint{
		X:     int(math.Round((ndc.X() + 1) / 2 * float64(c.PixelWidth()-1))),
		Y:     int(math.Round((1 - ndc.Y()) / 2 * float64(c.PixelHeight()-1))),
		Depth: cam.Position.Sub(p).Len(),
	}, true
}

// ToNDC converts a canvas cell to the normalized device coordinates of its
// centre.
func ToNDC(c *Canvas, col, row int) (x, y float64) {
	x = (float64(col)+0.5)/float64(c.Width)*2 - 1
	y = 1 - (float64(row)+0.5)/float64(c.Height)*2
	return x, y
}

// discRadius is the on-screen radius in dots of a sphere of radius r seen
// from depth.
func discRadius(cam *camera.Camera, c *Canvas, r, depth float64) int {
	if depth <= r {
		return maxDiscRadius
	}
	tanHalf := math.Tan(mgl64.DegToRad(cam.FOV) / 2)
	px := r / (depth * tanHalf) * float64(c.PixelHeight()) / 2
	return int(math.Min(px, maxDiscRadius))
}

type projectedBody struct {
	ScreenPoint
	id, name string
	radius   int
}

// Render draws orbit paths, bodies and labels of e as seen by its camera.
func Render(c *Canvas, e *orrery.Engine) {
	c.Clear()
	cam := e.Camera()
	sys := e.System()

	if sys.PathsVisible() {
		for _, b := range sys.Bodies() {
			drawPath(c, cam, sys.OrbitPath(b.ID))
		}
	}

	bodies := make([]projectedBody, 0, len(sys.Bodies()))
	for _, b := range sys.Bodies() {
		pos, ok := sys.WorldPosition(b.ID)
		if !ok {
			continue
		}
		sp, ok := Project(cam, c, pos)
		if !ok {
			continue
		}
		bodies = append(bodies, projectedBody{
			ScreenPoint: sp,
			id:          b.ID,
			name:        b.Name,
			radius:      discRadius(cam, c, b.Radius, sp.Depth),
		})
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Depth > bodies[j].Depth })
	for _, b := range bodies {
		c.FillDisc(b.X, b.Y, b.radius)
	}

	if !sys.LabelsVisible() {
		return
	}
	for _, b := range bodies {
		label := sys.Label(b.id)
		if label == nil || !label.WorldVisible() {
			continue
		}
		sp, ok := Project(cam, c, label.WorldPosition())
		if !ok {
			continue
		}
		c.Text(sp.X/2-len(b.name)/2, sp.Y/4, b.name)
	}
}

func drawPath(c *Canvas, cam *camera.Camera, points []mgl64.Vec3) {
	var (
		prev    ScreenPoint
		hasPrev bool
	)
	for _, p := range points {
		sp, ok := Project(cam, c, p)
		ok = ok && nearCanvas(c, sp)
		if ok && hasPrev {
			c.DrawLine(prev.X, prev.Y, sp.X, sp.Y)
		}
		prev, hasPrev = sp, ok
	}
}

// nearCanvas bounds line endpoints so segments far off screen are skipped.
func nearCanvas(c *Canvas, p ScreenPoint) bool {
	w, h := c.PixelWidth(), c.PixelHeight()
	return p.X > -w && p.X < 2*w && p.Y > -h && p.Y < 2*h
}
