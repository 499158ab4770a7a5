package liveness

import "github.com/ayusman/proofme/internal/landmark"

// SampleFace returns a synthetic face that satisfies only g's detector, or nil
// for an unknown type. Demo drivers and tests feed it as a scripted detector.
func SampleFace(g GestureType) landmark.Set {
	switch g {
	case GestureSmile:
		return landmark.SmilingFace()
	case GestureBlink:
		return landmark.EyesClosedFace()
	case GestureTurnLeft:
		return landmark.TurnedLeftFace()
	case GestureTurnRight:
		return landmark.TurnedRightFace()
	case GestureOpenMouth:
		return landmark.MouthOpenFace()
	}
	return nil
}
