package liveness

import (
	"math"

	"github.com/ayusman/proofme/internal/landmark"
)

// The measurements below are ratios of normalized coordinates, not physical
// angles. Each returns ok=false when a required landmark is missing.

// MouthAspectRatio returns mouth width (corner to corner) over lip separation.
// A zero lip separation is reported as unavailable.
func MouthAspectRatio(s landmark.Set) (float64, bool) {
	left, ok1 := s.At(landmark.LeftMouthCorner)
	right, ok2 := s.At(landmark.RightMouthCorner)
	upper, ok3 := s.At(landmark.UpperLipCenter)
	lower, ok4 := s.At(landmark.LowerLipCenter)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}

	height := landmark.Distance(upper, lower)
	if height == 0 {
		return 0, false
	}

	return landmark.Distance(left, right) / height, true
}

// EyeOpenness returns the mean vertical lid distance of both eyes.
func EyeOpenness(s landmark.Set) (float64, bool) {
	leftTop, ok1 := s.At(landmark.LeftEyeTop)
	leftBottom, ok2 := s.At(landmark.LeftEyeBottom)
	rightTop, ok3 := s.At(landmark.RightEyeTop)
	rightBottom, ok4 := s.At(landmark.RightEyeBottom)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}

	left := math.Abs(leftTop.Y - leftBottom.Y)
	right := math.Abs(rightTop.Y - rightBottom.Y)

	return (left + right) / 2, true
}

// NoseOffset returns the horizontal nose position relative to the midpoint of
// the cheeks. Positive values mean the head is turned left (mirrored camera).
func NoseOffset(s landmark.Set) (float64, bool) {
	nose, ok1 := s.At(landmark.NoseTip)
	leftCheek, ok2 := s.At(landmark.LeftCheek)
	rightCheek, ok3 := s.At(landmark.RightCheek)
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}

	center := (leftCheek.X + rightCheek.X) / 2
	return nose.X - center, true
}

// MouthOpening returns the vertical distance between the lip centers.
func MouthOpening(s landmark.Set) (float64, bool) {
	upper, ok1 := s.At(landmark.UpperLipCenter)
	lower, ok2 := s.At(landmark.LowerLipCenter)
	if !ok1 || !ok2 {
		return 0, false
	}

	return math.Abs(lower.Y - upper.Y), true
}
