// Package replay records runs to disk and re-simulates them. A bundle is a
// directory holding manifest.json, a snappy-framed JSONL log of every input
// the game received and a zstd stream of per-frame summaries.
package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/golem-runner/internal/config"
	"github.com/vovakirdan/golem-runner/internal/runner"
)

// ManifestVersion is the bundle layout written by this package.
const ManifestVersion = 1

const (
	manifestFile = "manifest.json"
	inputsFile   = "inputs.jsonl.sz"
	framesFile   = "frames.bin.zst"
)

// Setup is everything needed to rebuild the game a bundle was recorded from.
type Setup struct {
	Theme   string              `json:"theme"`
	Seed    int64               `json:"seed"`
	Config  config.RunnerConfig `json:"config"`
	Catalog config.Catalog      `json:"catalog"`
}

// NewGame builds a fresh game for the setup.
func (s Setup) NewGame(opts ...runner.Option) (*runner.Game, error) {
	opts = append([]runner.Option{runner.WithSeed(s.Seed)}, opts...)
	return runner.FromConfig(s.Config, s.Catalog, opts...)
}

// Manifest describes the bundle layout and the recorded outcome.
type Manifest struct {
	Version     int       `json:"version"`
	CreatedAt   string    `json:"created_at"`
	Setup       Setup     `json:"setup"`
	InputsPath  string    `json:"inputs_path"`
	FramesPath  string    `json:"frames_path"`
	Complete    bool      `json:"complete"`
	FinalScores []float64 `json:"final_scores"` // one per finished run, in order
	Inputs      uint64    `json:"inputs"`
	Frames      uint64    `json:"frames"`
}

func writeManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("replay: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("replay: write manifest: %w", err)
	}
	return nil
}

func readManifest(path string) (Manifest, string, error) {
	manifestPath := path
	info, err := os.Stat(path)
	if err != nil {
		return Manifest{}, "", fmt.Errorf("replay: %w", err)
	}
	if info.IsDir() {
		manifestPath = filepath.Join(path, manifestFile)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return Manifest{}, "", fmt.Errorf("replay: read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, "", fmt.Errorf("replay: decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return Manifest{}, "", fmt.Errorf("replay: unsupported manifest version %d", m.Version)
	}
	return m, filepath.Dir(manifestPath), nil
}
