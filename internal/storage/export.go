package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravsim/internal/sim"
)

type ExportBody struct {
	ID       uint64     `json:"id"`
	Position [3]float64 `json:"pos"`
	Velocity [3]float64 `json:"vel"`
	Mass     float64    `json:"mass"`
	Radius   float64    `json:"radius"`
	Color    string     `json:"color"`
}

type ExportFrame struct {
	Step   int          `json:"step"`
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportData struct {
	RunMetadata
	Data []ExportFrame `json:"data,omitempty"`
}

func NewExport(meta *RunMetadata, frames []sim.Frame) ExportData {
	data := ExportData{
		RunMetadata: *meta,
		Data:        make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		ef := ExportFrame{Step: f.Step, Time: f.Time, Bodies: make([]ExportBody, len(f.Bodies))}
		for j, b := range f.Bodies {
			ef.Bodies[j] = ExportBody{
				ID:       b.ID,
				Position: b.Position,
				Velocity: b.Velocity,
				Mass:     b.Mass,
				Radius:   b.Radius,
				Color:    b.Color.Hex(),
			}
		}
		data.Data[i] = ef
	}
	return data
}

func ExportJSON(path string, meta *RunMetadata, frames []sim.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, frames)
}

func WriteJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExport(meta, frames))
}
