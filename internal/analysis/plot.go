package analysis

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var trackGlyphs = []rune{'•', '∘', '+', 'x', '*', 'o'}

// Track is one path to plot. Ended marks a path that stops at a predicted
// merge.
type Track struct {
	Points []mgl64.Vec3
	Ended  bool
}

// OrbitToASCII draws trajectories seen from above (X right, Z up). Each
// trajectory gets its own glyph; its last point is marked with '@', or with
// 'X' when the track ends in a merge.
func OrbitToASCII(tracks []Track, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	// Find bounds
	found := false
	var minX, maxX, minZ, maxZ float64
	for _, tr := range tracks {
		for _, p := range tr.Points {
			if !found {
				minX, maxX, minZ, maxZ = p[0], p[0], p[2], p[2]
				found = true
				continue
			}
			minX, maxX = min(minX, p[0]), max(maxX, p[0])
			minZ, maxZ = min(minZ, p[2]), max(maxZ, p[2])
		}
	}
	if !found {
		return ""
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
	maxX += rangeX * 0.1
	minZ -= rangeZ * 0.1
	maxZ += rangeZ * 0.1
	rangeX = maxX - minX
	rangeZ = maxZ - minZ

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p mgl64.Vec3) (int, int, bool) {
		col := int((p[0] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p[2]-minZ)/rangeZ*float64(height-1))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		if _, col, ok := cell(mgl64.Vec3{0, 0, minZ}); ok {
			for row := range height {
				canvas[row][col] = '│'
			}
		}
	}
	if minZ <= 0 && maxZ >= 0 {
		if row, _, ok := cell(mgl64.Vec3{minX, 0, 0}); ok {
			for col := range width {
				if canvas[row][col] == '│' {
					canvas[row][col] = '┼'
				} else {
					canvas[row][col] = '─'
				}
			}
		}
	}

	for i, tr := range tracks {
		glyph := trackGlyphs[i%len(trackGlyphs)]
		for _, p := range tr.Points {
			if row, col, ok := cell(p); ok {
				canvas[row][col] = glyph
			}
		}
		if n := len(tr.Points); n > 0 {
			end := '@'
			if tr.Ended {
				end = 'X'
			}
			if row, col, ok := cell(tr.Points[n-1]); ok {
				canvas[row][col] = end
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
