// Package landmark provides face mesh landmark types shared by the detector and the liveness core.
package landmark

import (
	"encoding/json"
	"math"
)

// Face mesh landmark indices following the MediaPipe Face Mesh convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	NoseTip          = 1
	UpperLipCenter   = 13
	LowerLipCenter   = 14
	LeftMouthCorner  = 61
	LeftEyeBottom    = 145
	LeftEyeTop       = 159
	LeftCheek        = 234
	RightMouthCorner = 291
	RightEyeBottom   = 374
	RightEyeTop      = 386
	RightCheek       = 454
	FaceMeshSize     = 468
)

// Point is a landmark in normalized image coordinates.
// X and Y are roughly in [0,1] with the origin at the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Missing is the value stored for a landmark the upstream model did not report.
var Missing = Point{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// IsMissing reports whether p stands for an unreported landmark.
func (p Point) IsMissing() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}

// Set is an ordered landmark sequence for one detected face.
// An empty Set means no face was found in the frame.
type Set []Point

// At returns the landmark at index i. The second result is false when the
// index is out of range or the landmark was not reported.
func (s Set) At(i int) (Point, bool) {
	if i < 0 || i >= len(s) {
		return Point{}, false
	}
	p := s[i]
	if p.IsMissing() {
		return Point{}, false
	}
	return p, true
}

// Empty reports whether the set carries no face.
func (s Set) Empty() bool {
	return len(s) == 0
}

// UnmarshalJSON decodes a landmark array, keeping null entries as Missing
// so an absent landmark never reads as the origin.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []*Point
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = nil
		return nil
	}

	out := make(Set, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = Missing
			continue
		}
		out[i] = *p
	}
	*s = out
	return nil
}

// MarshalJSON encodes Missing landmarks as null.
func (s Set) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	raw := make([]*Point, len(s))
	for i := range s {
		if s[i].IsMissing() {
			continue
		}
		p := s[i]
		raw[i] = &p
	}
	return json.Marshal(raw)
}

// Distance returns the 2D Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
