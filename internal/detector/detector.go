// Package detector turns camera frames into face mesh landmark sets.
package detector

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/proofme/internal/landmark"
)

// Face is one detected face.
type Face struct {
	Landmarks landmark.Set `json:"landmarks"`
	Score     float64      `json:"score"`
}

// Detector defines the interface for face landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected faces.
	// Returns an empty slice if no face is found.
	Detect(frame *gocv.Mat) ([]Face, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face detection.
type Config struct {
	// MaxFaces is the maximum number of faces to detect (default: 1).
	MaxFaces int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// IdleTimeout stops the helper process after this long without frames.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxFaces:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}

// Primary returns the landmarks of the first face, or an empty set when no
// face was detected.
func Primary(faces []Face) landmark.Set {
	if len(faces) == 0 {
		return nil
	}
	return faces[0].Landmarks
}
