package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
)

// Path is a polyline drawn in the colour of the body it belongs to.
type Path struct {
	ID     uint64
	Points []mgl64.Vec3
	// Ended marks a path that stops at a predicted merge; its last point
	// gets a collision marker.
	Ended bool
}

const collisionColor = "#ff3030"

// SceneSVG writes a top-down (X right, Z up) SVG of bodies and paths,
// framed to fit both. Bodies are filled with their own colour; a path whose
// ID matches a body is stroked in that body's colour, and an ended path is
// ringed in red where it stops.
func SceneSVG(w io.Writer, bodies []body.Body, paths []Path, width, height int) error {
	lo := mgl64.Vec3{math.Inf(1), 0, math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), 0, math.Inf(-1)}
	grow := func(p mgl64.Vec3, r float64) {
		lo[0], lo[2] = min(lo[0], p[0]-r), min(lo[2], p[2]-r)
		hi[0], hi[2] = max(hi[0], p[0]+r), max(hi[2], p[2]+r)
	}
	for _, b := range bodies {
		grow(b.Position, b.Radius)
	}
	for _, p := range paths {
		for _, pt := range p.Points {
			grow(pt, 0)
		}
	}
	if math.IsInf(lo[0], 1) {
		lo, hi = mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 0, 1}
	}

	span := max(hi[0]-lo[0], hi[2]-lo[2]) * 1.1
	if span == 0 {
		span = 1
	}
	scale := float64(min(width, height)) / span
	mid := lo.Add(hi).Mul(0.5)
	project := func(p mgl64.Vec3) (float64, float64) {
		return float64(width)/2 + (p[0]-mid[0])*scale, float64(height)/2 - (p[2]-mid[2])*scale
	}

	colors := make(map[uint64]string, len(bodies))
	for _, b := range bodies {
		colors[b.ID] = b.Color.Clamped().Hex()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString(`<g fill="none" stroke-width="1" stroke-opacity="0.6">` + "\n")
	for _, p := range paths {
		if len(p.Points) < 2 {
			continue
		}
		stroke, ok := colors[p.ID]
		if !ok {
			stroke = "#888888"
		}
		fmt.Fprintf(&sb, `<polyline data-id="%d" stroke="%s" points="`, p.ID, stroke)
		for i, pt := range p.Points {
			x, y := project(pt)
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString(`"/>` + "\n")
	}
	sb.WriteString("</g>\n<g>\n")

	for _, p := range paths {
		if !p.Ended || len(p.Points) == 0 {
			continue
		}
		x, y := project(p.Points[len(p.Points)-1])
		fmt.Fprintf(&sb, `<circle class="collision" data-id="%d" cx="%.1f" cy="%.1f" r="6" fill="none" stroke="%s" stroke-width="2"/>`+"\n", p.ID, x, y, collisionColor)
	}

	for _, b := range bodies {
		x, y := project(b.Position)
		r := max(b.Radius*scale, 1.5)
		fmt.Fprintf(&sb, `<circle data-id="%d" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", b.ID, x, y, r, colors[b.ID])
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
