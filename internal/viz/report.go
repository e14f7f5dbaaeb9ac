package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/storage"
)

// Plot draws a single series. Empty series render as an empty string.
func Plot(series []float64, caption string, height, width int) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several series of any lengths.
func PlotMany(series [][]float64, caption string, height, width int) string {
	nonEmpty := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return asciigraph.PlotMany(nonEmpty,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green, asciigraph.Blue),
	)
}

func RunSummary(meta *storage.RunMetadata) string {
	var b strings.Builder
	b.WriteString(Header.Render(meta.ID) + "\n")
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("scene", meta.Scene)
	row("recorded", meta.Timestamp.Format("2006-01-02 15:04:05"))
	row("g", fmt.Sprintf("%g", meta.G))
	row("timestep", fmt.Sprintf("%g", meta.Timestep))
	row("duration", fmt.Sprintf("%.2fs", meta.Duration))
	row("steps", fmt.Sprintf("%d", meta.Steps))
	row("bodies", fmt.Sprintf("%d", meta.Bodies))
	row("merges", fmt.Sprintf("%d", len(meta.Merges)))
	row("energy drift", fmt.Sprintf("%.3e", meta.EnergyDrift))
	return b.String()
}

func MetricsTable(metrics map[string]float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.6g", metrics[name])) + "\n")
	}
	return b.String()
}

func BodyTable(bodies []body.Body) string {
	var b strings.Builder
	b.WriteString(Subtle.Render(fmt.Sprintf("   %-5s %-26s %-10s %-9s %-7s", "ID", "POSITION", "SPEED", "MASS", "RADIUS")) + "\n")
	for _, bd := range bodies {
		fmt.Fprintf(&b, "%s  %-5d %-26s %-10.3f %-9.3g %-7.3g\n",
			Swatch(bd.Color),
			bd.ID,
			fmt.Sprintf("(%.1f, %.1f, %.1f)", bd.Position[0], bd.Position[1], bd.Position[2]),
			bd.Velocity.Len(),
			bd.Mass,
			bd.Radius,
		)
	}
	return b.String()
}
