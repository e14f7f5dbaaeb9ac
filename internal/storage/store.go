package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.db"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type MergeRecord struct {
	Step   int     `json:"step"`
	Time   float64 `json:"time"`
	A      uint64  `json:"a"`
	B      uint64  `json:"b"`
	Result uint64  `json:"result"`
	Mass   float64 `json:"mass"`
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	G           float64            `json:"g"`
	Timestep    float64            `json:"timestep"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Frames      int                `json:"frames"`
	Bodies      int                `json:"bodies"`
	Merges      []MergeRecord      `json:"merges"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and frames.db and
// returns the run id.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Scene, now.UnixNano())
	meta := RunMetadata{
		ID:          runID,
		Scene:       cfg.Scene,
		Timestamp:   now,
		Seed:        cfg.Seed,
		G:           cfg.G,
		Timestep:    cfg.Timestep,
		Duration:    cfg.Duration,
		Steps:       result.StepsTaken,
		Frames:      len(result.Frames),
		Merges:      make([]MergeRecord, 0, len(result.Merges)),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	if len(result.Frames) > 0 {
		meta.Bodies = len(result.Frames[0].Bodies)
	}
	for _, m := range result.Merges {
		meta.Merges = append(meta.Merges, MergeRecord{
			Step:   m.Step,
			Time:   m.Time,
			A:      m.A,
			B:      m.B,
			Result: m.Result,
			Mass:   m.Mass,
		})
	}

	if err := s.writeRun(filepath.Join(s.baseDir, runID), &meta, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

// writeRun fills runDir with frames.db and then metadata.json. List only
// picks up directories with metadata, and a failed write removes runDir so
// no partial run is left behind.
func (s *Store) writeRun(runDir string, meta *RunMetadata, frames []sim.Frame) (err error) {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return fmt.Errorf("write frames: %w", err)
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	return metaFile.Close()
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	return readFrames(filepath.Join(s.baseDir, runID, framesFile))
}

// LoadTrack returns the sampled times and positions of one body. Frames in
// which the body does not exist are skipped.
func (s *Store) LoadTrack(runID string, id uint64) ([]float64, []mgl64.Vec3, error) {
	return readTrack(filepath.Join(s.baseDir, runID, framesFile), id)
}
