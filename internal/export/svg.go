package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
)

var palette = []string{"#ffd700", "#00ffff", "#ff6b6b", "#00ff88", "#ff9ff3", "#feca57", "#0088ff", "#ffffff"}

// Track is the recorded path of one body.
type Track struct {
	ID     string
	Points []mgl64.Vec3
}

// TracksFromFrames collects per-body positions from a recording, ordered by
// body id.
func TracksFromFrames(frames []storage.Frame) []Track {
	byID := make(map[string][]mgl64.Vec3)
	for _, f := range frames {
		for id, p := range f.Bodies {
			byID[id] = append(byID[id], p)
		}
	}

	tracks := make([]Track, 0, len(byID))
	for id, pts := range byID {
		tracks = append(tracks, Track{ID: id, Points: pts})
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].ID < tracks[j].ID })
	return tracks
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.PixelWidth()) * scale
	height := float64(canvas.PixelHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TracksToSVG draws tracks seen from above (x right, z down) in one shared
// frame. Tracks with fewer than two points are skipped.
func TracksToSVG(tracks []Track, width, height int) string {
	minX, maxX := 0.0, 0.0
	minZ, maxZ := 0.0, 0.0
	first := true
	for _, t := range tracks {
		for _, p := range t.Points {
			if first {
				minX, maxX, minZ, maxZ = p.X(), p.X(), p.Z(), p.Z()
				first = false
				continue
			}
			minX, maxX = min(minX, p.X()), max(maxX, p.X())
			minZ, maxZ = min(minZ, p.Z()), max(maxZ, p.Z())
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeZ := maxZ - minZ
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeZ == 0 {
		rangeZ = 1
	}
	minX -= rangeX * 0.1
	minZ -= rangeZ * 0.1
	rangeX *= 1.2
	rangeZ *= 1.2

	toScreen := func(p mgl64.Vec3) (float64, float64) {
		return (p.X() - minX) / rangeX * float64(width), (p.Z() - minZ) / rangeZ * float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, t := range tracks {
		if len(t.Points) < 2 {
			continue
		}
		color := palette[i%len(palette)]
		fmt.Fprintf(&sb, `<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, t.ID, color)
		for j, p := range t.Points {
			x, y := toScreen(p)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		x, y := toScreen(t.Points[len(t.Points)-1])
		fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-size=\"10\">%s</text>\n", x+4, y-4, color, t.ID)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
