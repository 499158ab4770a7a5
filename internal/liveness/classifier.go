package liveness

import (
	"errors"
	"fmt"

	"github.com/ayusman/proofme/internal/landmark"
)

// ErrMissingDetector is returned when a gesture type has no detector.
var ErrMissingDetector = errors.New("gesture type has no detector")

// Thresholds holds the empirically tuned gesture rules. The values are tied to
// the face mesh numbering and normalization.
type Thresholds struct {
	SmileRatio    float64 `json:"smile_ratio"`    // mouth aspect ratio above which a smile is detected
	BlinkOpenness float64 `json:"blink_openness"` // eye openness below which the eyes count as closed
	TurnOffset    float64 `json:"turn_offset"`    // absolute nose offset for a head turn
	MouthOpening  float64 `json:"mouth_opening"`  // lip separation above which the mouth is open
}

// DefaultThresholds returns the standard tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SmileRatio:    3.5,
		BlinkOpenness: 0.012,
		TurnOffset:    0.04,
		MouthOpening:  0.035,
	}
}

// Validate rejects non-positive thresholds.
func (t Thresholds) Validate() error {
	switch {
	case t.SmileRatio <= 0:
		return fmt.Errorf("smile ratio must be positive, got %v", t.SmileRatio)
	case t.BlinkOpenness <= 0:
		return fmt.Errorf("blink openness must be positive, got %v", t.BlinkOpenness)
	case t.TurnOffset <= 0:
		return fmt.Errorf("turn offset must be positive, got %v", t.TurnOffset)
	case t.MouthOpening <= 0:
		return fmt.Errorf("mouth opening must be positive, got %v", t.MouthOpening)
	}
	return nil
}

// Detector reports whether a gesture is being performed in a single frame.
type Detector func(landmark.Set) bool

// Classifier maps every gesture type to its detector.
type Classifier struct {
	thresholds Thresholds
	detectors  map[GestureType]Detector
}

// NewClassifier builds the detector table for t and verifies that every
// gesture type is covered.
func NewClassifier(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	detectors := detectorTable(t)
	if err := checkComplete(detectors); err != nil {
		return nil, err
	}

	return &Classifier{
		thresholds: t,
		detectors:  detectors,
	}, nil
}

func detectorTable(t Thresholds) map[GestureType]Detector {
	return map[GestureType]Detector{
		GestureSmile: func(s landmark.Set) bool {
			ratio, ok := MouthAspectRatio(s)
			return ok && ratio > t.SmileRatio
		},
		GestureBlink: func(s landmark.Set) bool {
			openness, ok := EyeOpenness(s)
			return ok && openness < t.BlinkOpenness
		},
		GestureTurnLeft: func(s landmark.Set) bool {
			offset, ok := NoseOffset(s)
			return ok && offset > t.TurnOffset
		},
		GestureTurnRight: func(s landmark.Set) bool {
			offset, ok := NoseOffset(s)
			return ok && offset < -t.TurnOffset
		},
		GestureOpenMouth: func(s landmark.Set) bool {
			height, ok := MouthOpening(s)
			return ok && height > t.MouthOpening
		},
	}
}

func checkComplete(detectors map[GestureType]Detector) error {
	for _, g := range GestureTypes() {
		if detectors[g] == nil {
			return fmt.Errorf("%w: %s", ErrMissingDetector, g)
		}
	}
	return nil
}

// Thresholds returns the tuning the classifier was built with.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Detect evaluates only the detector for g. Unknown types are never detected.
func (c *Classifier) Detect(g GestureType, s landmark.Set) bool {
	d, ok := c.detectors[g]
	if !ok {
		return false
	}
	return d(s)
}
