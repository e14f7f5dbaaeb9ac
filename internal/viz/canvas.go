package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/body"
)

// Each braille cell is a 2x4 block of dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
		}
	}
}

// DrawLine draws a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawDisc fills a disc of radius r dots. A radius below one lights a
// single dot.
func (c *Canvas) DrawDisc(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y)
			}
		}
	}
}

// DrawCross draws the two diagonals of a square of half-size r dots.
func (c *Canvas) DrawCross(cx, cy, r int) {
	c.DrawLine(cx-r, cy-r, cx+r, cy+r)
	c.DrawLine(cx-r, cy+r, cx+r, cy-r)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport looks down the Y axis: world X goes right, world Z goes up.
// Scale is world units per dot.
type Viewport struct {
	Center mgl64.Vec3
	Scale  float64
}

func (v Viewport) Project(c *Canvas, p mgl64.Vec3) (int, int) {
	w, h := c.Dots()
	scale := v.Scale
	if scale <= 0 {
		scale = 1
	}
	x := float64(w)/2 + (p[0]-v.Center[0])/scale
	y := float64(h)/2 - (p[2]-v.Center[2])/scale
	return int(math.Floor(x)), int(math.Floor(y))
}

func (v Viewport) Zoom(factor float64) Viewport {
	if factor > 0 {
		v.Scale /= factor
	}
	return v
}

// FitViewport frames every body in reg with a margin (0.1 = 10%) on each
// side.
func FitViewport(c *Canvas, reg *body.Registry, margin float64) Viewport {
	if reg.Len() == 0 {
		return Viewport{Scale: 1}
	}

	lo := mgl64.Vec3{math.Inf(1), 0, math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), 0, math.Inf(-1)}
	for b := range reg.All() {
		lo[0] = min(lo[0], b.Position[0]-b.Radius)
		lo[2] = min(lo[2], b.Position[2]-b.Radius)
		hi[0] = max(hi[0], b.Position[0]+b.Radius)
		hi[2] = max(hi[2], b.Position[2]+b.Radius)
	}

	w, h := c.Dots()
	scale := max((hi[0]-lo[0])/float64(w), (hi[2]-lo[2])/float64(h)) * (1 + 2*margin)
	if scale <= 0 {
		scale = 1
	}
	return Viewport{Center: lo.Add(hi).Mul(0.5), Scale: scale}
}

func (c *Canvas) DrawBodies(v Viewport, reg *body.Registry) {
	for b := range reg.All() {
		x, y := v.Project(c, b.Position)
		c.DrawDisc(x, y, int(b.Radius/v.Scale))
	}
}

// DrawPath joins consecutive points of a trajectory.
func (c *Canvas) DrawPath(v Viewport, points []mgl64.Vec3) {
	if len(points) == 0 {
		return
	}
	px, py := v.Project(c, points[0])
	c.Set(px, py)
	for _, p := range points[1:] {
		x, y := v.Project(c, p)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

// MarkCollision crosses out the point where a forecast predicts a merge.
func (c *Canvas) MarkCollision(v Viewport, p mgl64.Vec3) {
	x, y := v.Project(c, p)
	c.DrawCross(x, y, collisionMarkSize)
}

const collisionMarkSize = 3

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
