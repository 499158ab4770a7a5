package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/proofme/internal/liveness"
)

// ErrInvalidTuning is returned when a tuning file holds out-of-range values.
var ErrInvalidTuning = errors.New("invalid tuning")

const maxTuningFileSize = 1 * 1024 * 1024

// Tuning overrides liveness session options. Omitted fields keep their
// defaults, so partial files are safe.
type Tuning struct {
	HoldThreshold *int     `json:"hold_threshold,omitempty"`
	SmileRatio    *float64 `json:"smile_ratio,omitempty"`
	BlinkOpenness *float64 `json:"blink_openness,omitempty"`
	TurnOffset    *float64 `json:"turn_offset,omitempty"`
	MouthOpening  *float64 `json:"mouth_opening,omitempty"`
	NoFacePolicy  *string  `json:"no_face_policy,omitempty"`
}

// LoadTuning reads a JSON tuning file. The file must have a .json extension
// and be at most 1 MiB.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	if info.Size() > maxTuningFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", info.Size(), maxTuningFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var t Tuning
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// Validate checks that every set value is usable.
func (t *Tuning) Validate() error {
	if t.HoldThreshold != nil && *t.HoldThreshold <= 0 {
		return fmt.Errorf("%w: hold_threshold must be positive, got %d", ErrInvalidTuning, *t.HoldThreshold)
	}

	positive := []struct {
		name string
		v    *float64
	}{
		{"smile_ratio", t.SmileRatio},
		{"blink_openness", t.BlinkOpenness},
		{"turn_offset", t.TurnOffset},
		{"mouth_opening", t.MouthOpening},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidTuning, p.name, *p.v)
		}
	}

	if t.NoFacePolicy != nil && !liveness.NoFacePolicy(*t.NoFacePolicy).Valid() {
		return fmt.Errorf("%w: no_face_policy must be freeze or decay, got %q", ErrInvalidTuning, *t.NoFacePolicy)
	}

	return nil
}

// Apply validates t and copies the set fields into opts.
func (t *Tuning) Apply(opts *liveness.Options) error {
	if t == nil {
		return nil
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if t.HoldThreshold != nil {
		opts.HoldThreshold = *t.HoldThreshold
	}
	if t.SmileRatio != nil {
		opts.Thresholds.SmileRatio = *t.SmileRatio
	}
	if t.BlinkOpenness != nil {
		opts.Thresholds.BlinkOpenness = *t.BlinkOpenness
	}
	if t.TurnOffset != nil {
		opts.Thresholds.TurnOffset = *t.TurnOffset
	}
	if t.MouthOpening != nil {
		opts.Thresholds.MouthOpening = *t.MouthOpening
	}
	if t.NoFacePolicy != nil {
		opts.NoFace = liveness.NoFacePolicy(*t.NoFacePolicy)
	}

	return nil
}

// SessionOptions returns the default liveness options with the tuning file at
// path applied. An empty path yields the defaults.
func SessionOptions(path string) (liveness.Options, error) {
	opts := liveness.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	t, err := LoadTuning(path)
	if err != nil {
		return opts, err
	}
	if err := t.Apply(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}
