package landmark

// Preset faces used by tests and the mock detector. Each one satisfies exactly one
// gesture rule with the default liveness thresholds, except NeutralFace which
// satisfies none.

// NeutralFace returns a frontal face with closed lips, open eyes and a centered nose.
func NeutralFace() Set {
	s := make(Set, FaceMeshSize)
	for i := range s {
		s[i] = Point{X: 0.5, Y: 0.5}
	}

	// Mouth is 0.10 wide and lips are 0.03 apart: aspect ratio 3.33
	s[LeftMouthCorner] = Point{X: 0.45, Y: 0.70}
	s[RightMouthCorner] = Point{X: 0.55, Y: 0.70}
	s[UpperLipCenter] = Point{X: 0.50, Y: 0.685}
	s[LowerLipCenter] = Point{X: 0.50, Y: 0.715}

	// Both eyes 0.02 open
	s[LeftEyeTop] = Point{X: 0.42, Y: 0.44}
	s[LeftEyeBottom] = Point{X: 0.42, Y: 0.46}
	s[RightEyeTop] = Point{X: 0.58, Y: 0.44}
	s[RightEyeBottom] = Point{X: 0.58, Y: 0.46}

	// Nose halfway between the cheeks
	s[NoseTip] = Point{X: 0.50, Y: 0.55, Z: -0.05}
	s[LeftCheek] = Point{X: 0.35, Y: 0.55}
	s[RightCheek] = Point{X: 0.65, Y: 0.55}

	return s
}

// SmilingFace widens the mouth to an aspect ratio of about 5.3.
func SmilingFace() Set {
	s := NeutralFace()
	s[LeftMouthCorner] = Point{X: 0.42, Y: 0.69}
	s[RightMouthCorner] = Point{X: 0.58, Y: 0.69}
	return s
}

// EyesClosedFace brings both eyelids to 0.006 apart.
func EyesClosedFace() Set {
	s := NeutralFace()
	s[LeftEyeTop] = Point{X: 0.42, Y: 0.447}
	s[LeftEyeBottom] = Point{X: 0.42, Y: 0.453}
	s[RightEyeTop] = Point{X: 0.58, Y: 0.447}
	s[RightEyeBottom] = Point{X: 0.58, Y: 0.453}
	return s
}

// TurnedLeftFace moves the nose 0.06 toward positive X.
func TurnedLeftFace() Set {
	s := NeutralFace()
	s[NoseTip] = Point{X: 0.56, Y: 0.55, Z: -0.05}
	return s
}

// TurnedRightFace moves the nose 0.06 toward negative X.
func TurnedRightFace() Set {
	s := NeutralFace()
	s[NoseTip] = Point{X: 0.44, Y: 0.55, Z: -0.05}
	return s
}

// MouthOpenFace parts the lips by 0.06.
func MouthOpenFace() Set {
	s := NeutralFace()
	s[UpperLipCenter] = Point{X: 0.50, Y: 0.67}
	s[LowerLipCenter] = Point{X: 0.50, Y: 0.73}
	return s
}

// Without returns a copy of s with the given indices marked Missing.
func Without(s Set, indices ...int) Set {
	out := make(Set, len(s))
	copy(out, s)
	for _, i := range indices {
		if i >= 0 && i < len(out) {
			out[i] = Missing
		}
	}
	return out
}
