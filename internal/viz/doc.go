// Package viz renders gravsim state for the terminal.
//
// [Canvas] is a braille dot canvas with a top-down [Viewport] onto the XZ
// plane, used by the live view and the forecast command. The report helpers
// ([Plot], [RunSummary], [BodyTable], [MetricsTable]) format stored runs and
// registry snapshots with lipgloss and asciigraph.
package viz
