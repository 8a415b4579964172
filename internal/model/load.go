package model

import (
	"fmt"
	"path/filepath"

	"skipgram-query/internal/vocab"
	"skipgram-query/internal/weights"
)

// Standard file names inside a model directory.
const (
	VocabFile      = "vocab.json"
	ProjectionFile = "projection.bin"
	OutputFile     = "output.bin"
)

// Load assembles a Model from a model directory containing vocab.json,
// projection.bin, and output.bin.
func Load(dir string) (*Model, error) {
	v, err := vocab.LoadFile(filepath.Join(dir, VocabFile))
	if err != nil {
		return nil, fmt.Errorf("model: load vocabulary: %w", err)
	}
	projection, err := weights.ReadFile(filepath.Join(dir, ProjectionFile))
	if err != nil {
		return nil, fmt.Errorf("model: load projection weights: %w", err)
	}
	output, err := weights.ReadFile(filepath.Join(dir, OutputFile))
	if err != nil {
		return nil, fmt.Errorf("model: load output weights: %w", err)
	}
	return New(v, projection, output)
}
